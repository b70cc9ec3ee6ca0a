package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"credit-approval/internal/api/handler/dto"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/pkg/apperrors"
)

type CustomerHandler struct {
	service customer.Service
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.Service, l *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: s,
		logger:  l.With("component", "CustomerHandler"),
	}
}

// Register creates a new customer with a computed approval limit.
//
// @Summary Register a new customer
// @Description Registers a customer and derives their approved credit limit from the monthly salary (36x salary rounded to the nearest lakh).
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.RegisterCustomerRequest true "Customer registration payload"
// @Success 201 {object} dto.CustomerResponse "Customer successfully registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or validation error"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /register [post]
func (h *CustomerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	cust, err := h.service.Register(r.Context(), req.FirstName, req.LastName, req.Age, req.PhoneNumber, req.MonthlySalary)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewCustomerResponse(cust))
}
