package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"credit-approval/internal/api/handler/dto"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

type LoanHandler struct {
	service loan.Service
	logger  *slog.Logger
}

func NewLoanHandler(s loan.Service, l *slog.Logger) *LoanHandler {
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field := http.StatusInternalServerError, "An unexpected error occurred.", ""
	var validationError *apperrors.ValidationError

	switch {
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, customer.ErrNotFound),
		errors.Is(err, loan.ErrNotFound):
		status, message = http.StatusNotFound, "Resource not found."
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

func pathID(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	if idStr == "" {
		return 0, fmt.Errorf("%s not found in URL path", name)
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// CheckEligibility evaluates a loan proposal without creating anything.
//
// @Summary Check loan eligibility
// @Description Scores the customer's credit history and reports whether the proposed loan would be approved, along with the rate the lender would actually offer.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.LoanRequest true "Loan proposal payload"
// @Success 200 {object} dto.EligibilityResponse "Eligibility decision"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or validation error"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /check-eligibility [post]
func (h *LoanHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	var req dto.LoanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	decision, err := h.service.CheckEligibility(r.Context(), req.CustomerID, req.LoanAmount, req.InterestRate, req.Tenure)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewEligibilityResponse(req.CustomerID, req.Tenure, decision))
}

// CreateLoan evaluates a proposal and persists the loan when approved.
//
// @Summary Create a loan
// @Description Runs the same eligibility decision as /check-eligibility and, on approval, records the loan and raises the customer's current debt. A rejection leaves all state untouched.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.LoanRequest true "Loan proposal payload"
// @Success 200 {object} dto.CreateLoanResponse "Creation result, loan_id is null when rejected"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or validation error"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /create-loan [post]
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.LoanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	created, decision, err := h.service.CreateLoan(r.Context(), req.CustomerID, req.LoanAmount, req.InterestRate, req.Tenure)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCreateLoanResponse(req.CustomerID, created, decision))
}

// ViewLoan returns one loan with its customer summary.
//
// @Summary View loan details
// @Description Returns the loan's financial terms, the owning customer, and the number of repayments left.
// @Tags Loans
// @Produce json
// @Param loan_id path int true "Loan ID"
// @Success 200 {object} dto.LoanDetailResponse "Loan details"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /view-loan/{loan_id} [get]
func (h *LoanHandler) ViewLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loanID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	detail, err := h.service.GetLoanDetail(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanDetailResponse(detail))
}

// ViewCustomerLoans lists a customer's currently active loans.
//
// @Summary View a customer's active loans
// @Description Returns every active loan of the customer, each with its repayments left.
// @Tags Loans
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Success 200 {array} dto.LoanDetailResponse "Active loans"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /view-loans/{customer_id} [get]
func (h *LoanHandler) ViewCustomerLoans(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "customerID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	details, err := h.service.ListActiveCustomerLoans(r.Context(), customerID)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]dto.LoanDetailResponse, 0, len(details))
	for _, d := range details {
		resp = append(resp, dto.NewLoanDetailResponse(d))
	}
	respondJSON(w, http.StatusOK, resp)
}
