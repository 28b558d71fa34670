package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"clinic-inventory/internal/delivery/dto"
	"clinic-inventory/internal/delivery/http/middleware"
	"clinic-inventory/internal/session"
	"clinic-inventory/internal/usecase"
	"clinic-inventory/pkg/response"
	"clinic-inventory/pkg/validator"

	"github.com/shopspring/decimal"
)

type DrugHandler struct {
	drugUsecase usecase.DrugUsecase
	validator   *validator.CustomValidator
	sessions    *session.Service
}

func NewDrugHandler(drugUsecase usecase.DrugUsecase, validator *validator.CustomValidator, sessions *session.Service) *DrugHandler {
	return &DrugHandler{
		drugUsecase: drugUsecase,
		validator:   validator,
		sessions:    sessions,
	}
}

// List returns every drug ordered by name, plus any pending notices.
func (h *DrugHandler) List(w http.ResponseWriter, r *http.Request) {
	drugs, err := h.drugUsecase.GetAll(r.Context(), time.Now())
	if err != nil {
		response.InternalServerError(w, "Failed to list drugs")
		return
	}

	response.Success(w, http.StatusOK, "Drugs retrieved successfully", dto.DrugListResponse{
		Drugs:   drugs,
		Notices: drainFlashes(r, h.sessions),
	})
}

// AddForm serves the add-drug entry point.
func (h *DrugHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Add a drug.", nil)
}

// Add creates a drug from the posted form.
func (h *DrugHandler) Add(w http.ResponseWriter, r *http.Request) {
	req, err := parseDrugForm(r)
	if err != nil {
		response.FormError(w, "Error adding drug: "+err.Error(), nil)
		return
	}

	if err := h.validator.Validate(req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if _, err := h.drugUsecase.Create(r.Context(), req, user.ID); err != nil {
		if errors.Is(err, usecase.ErrNegativePrice) {
			response.FormError(w, "Error adding drug: price must not be negative", nil)
			return
		}
		response.FormError(w, "Error adding drug", nil)
		return
	}

	flash(r, h.sessions, "Drug added successfully!")
	http.Redirect(w, r, "/drugs", http.StatusSeeOther)
}

// EditForm returns the drug to prefill the edit form.
func (h *DrugHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid drug ID", nil)
		return
	}

	drug, err := h.drugUsecase.GetByID(r.Context(), id, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDrugNotFound):
			response.NotFound(w, "Drug not found")
		default:
			response.InternalServerError(w, "Failed to get drug")
		}
		return
	}

	response.Success(w, http.StatusOK, "Drug retrieved successfully", drug)
}

// Edit overwrites every field of the drug from the posted form.
func (h *DrugHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid drug ID", nil)
		return
	}

	req, err := parseDrugForm(r)
	if err != nil {
		response.FormError(w, "Error updating drug: "+err.Error(), nil)
		return
	}

	if err := h.validator.Validate(req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if _, err := h.drugUsecase.Update(r.Context(), id, req); err != nil {
		switch {
		case errors.Is(err, usecase.ErrDrugNotFound):
			response.NotFound(w, "Drug not found")
		case errors.Is(err, usecase.ErrNegativePrice):
			response.FormError(w, "Error updating drug: price must not be negative", nil)
		default:
			response.FormError(w, "Error updating drug", nil)
		}
		return
	}

	flash(r, h.sessions, "Drug updated successfully!")
	http.Redirect(w, r, "/drugs", http.StatusSeeOther)
}

// Delete removes the drug. The outcome, success or failure, is reported as a
// notice on the list view rather than an error response.
func (h *DrugHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		flash(r, h.sessions, "Error deleting drug: invalid drug ID")
		http.Redirect(w, r, "/drugs", http.StatusFound)
		return
	}

	if err := h.drugUsecase.Delete(r.Context(), id); err != nil {
		flash(r, h.sessions, "Error deleting drug: "+err.Error())
	} else {
		flash(r, h.sessions, "Drug deleted successfully!")
	}

	http.Redirect(w, r, "/drugs", http.StatusFound)
}

// ExpiryAlerts returns the machine-readable feed of drugs due on or before
// today. The body is a bare array, per the feed contract.
func (h *DrugHandler) ExpiryAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.drugUsecase.ExpiryAlerts(r.Context(), time.Now())
	if err != nil {
		response.InternalServerError(w, "Failed to list expiry alerts")
		return
	}

	response.JSON(w, http.StatusOK, alerts)
}

// parseDrugForm converts the add/edit form fields into a DrugRequest. Errors
// are phrased for the user since they end up in a form notice.
func parseDrugForm(r *http.Request) (*dto.DrugRequest, error) {
	if err := r.ParseForm(); err != nil {
		return nil, errors.New("invalid form data")
	}

	quantity, err := strconv.Atoi(r.PostFormValue("quantity"))
	if err != nil {
		return nil, errors.New("quantity must be a whole number")
	}

	expiry, err := time.Parse("2006-01-02", r.PostFormValue("expiry_date"))
	if err != nil {
		return nil, errors.New("expiry date must be in YYYY-MM-DD format")
	}

	var price *decimal.Decimal
	if raw := r.PostFormValue("price"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, errors.New("price must be a number")
		}
		price = &parsed
	}

	return &dto.DrugRequest{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		Quantity:    quantity,
		Price:       price,
		ExpiryDate:  expiry,
		BatchNumber: r.PostFormValue("batch_number"),
		Supplier:    r.PostFormValue("supplier"),
	}, nil
}
