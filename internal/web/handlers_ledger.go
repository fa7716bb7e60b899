package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/billbook/internal/middleware"
	"github.com/mmynk/billbook/internal/models"
	"github.com/mmynk/billbook/internal/service"
)

func (h *Handler) GroupsPage(w http.ResponseWriter, r *http.Request) {
	h.renderGroups(w, r, http.StatusOK, groupForm{})
}

func (h *Handler) GroupsSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		if bodyTooLarge(err) {
			h.RequestTooLarge(w, r)
			return
		}
		h.renderGroups(w, r, http.StatusBadRequest, groupForm{Error: "Invalid form submission"})
		return
	}
	form := groupForm{
		Name:        formString(r, "name"),
		Description: formString(r, "description"),
	}

	_, err := h.Groups.CreateGroup(r.Context(), middleware.GetUserID(r.Context()), form.Name, form.Description)
	if errors.Is(err, service.ErrNameRequired) {
		form.Error = "Group name is required"
		h.renderGroups(w, r, http.StatusBadRequest, form)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.renderGroups(w, r, http.StatusOK, groupForm{})
}

func (h *Handler) renderGroups(w http.ResponseWriter, r *http.Request, status int, form groupForm) {
	groups, err := h.Groups.ListGroups(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	renderHTML(w, status, groupsPage(groups, form))
}

func (h *Handler) BillsPage(w http.ResponseWriter, r *http.Request) {
	h.renderBills(w, r, http.StatusOK, billForm{Date: h.now().UTC().Format(models.DateLayout)})
}

func (h *Handler) BillsSubmit(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")

	// Unknown groups are a 404 whatever the form holds.
	if _, err := h.Groups.GetGroup(r.Context(), groupID); err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			h.notFound(w, r, "That group does not exist.")
			return
		}
		h.serverError(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		if bodyTooLarge(err) {
			h.RequestTooLarge(w, r)
			return
		}
		h.renderBills(w, r, http.StatusBadRequest, billForm{Error: "Invalid form submission"})
		return
	}
	form := billForm{
		Description: formString(r, "description"),
		Date:        formString(r, "date"),
		Amount:      formString(r, "amount"),
	}

	_, err := h.Bills.AddBill(r.Context(), service.AddBillRequest{
		GroupID:     groupID,
		Description: form.Description,
		Date:        form.Date,
		Amount:      form.Amount,
	})
	switch {
	case err == nil:
		h.renderBills(w, r, http.StatusOK, billForm{Date: form.Date})
	case errors.Is(err, service.ErrGroupNotFound):
		h.notFound(w, r, "That group does not exist.")
	case errors.Is(err, service.ErrDescriptionRequired),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidAmount):
		form.Error = capitalize(err.Error())
		h.renderBills(w, r, http.StatusBadRequest, form)
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handler) renderBills(w http.ResponseWriter, r *http.Request, status int, form billForm) {
	ledger, err := h.Bills.ListBills(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, service.ErrGroupNotFound) {
		h.notFound(w, r, "That group does not exist.")
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	renderHTML(w, status, billsPage(ledger, form))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
