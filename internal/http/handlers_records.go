package http

import (
	"bytes"
	"errors"
	"net/http"

	"despesas/internal/core"
	"despesas/internal/export"
	"despesas/internal/intake"
	"despesas/internal/log"
	"despesas/internal/services"
)

type snapshotView struct {
	State   services.State `json:"state"`
	Records []recordView   `json:"records"`
	Totals  totalsView     `json:"totals"`
}

func newSnapshotView(snap services.Snapshot) snapshotView {
	v := snapshotView{
		State:   snap.State,
		Records: make([]recordView, 0, len(snap.Records)),
		Totals:  newTotalsView(snap.Totals),
	}
	for _, r := range snap.Records {
		v.Records = append(v.Records, newRecordView(r))
	}
	return v
}

type optionsView struct {
	Kinds          []core.Kind `json:"kinds"`
	Categories     []string    `json:"categories"`
	PaymentMethods []string    `json:"paymentMethods"`
	Accept         string      `json:"accept"`
	Currency       string      `json:"currency"`
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	NewResponse().Data(optionsView{
		Kinds:          []core.Kind{core.KindExpense, core.KindIncome},
		Categories:     core.Categories,
		PaymentMethods: core.PaymentMethods,
		Accept:         intake.Accept,
		Currency:       core.CurrencySymbol,
	}).Write(w)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	NewResponse().Data(newSnapshotView(s.records.Snapshot())).Write(w)
}

// handleRefresh reloads from the store. A failed reload still answers with
// the last good view and the error notification.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	err := s.records.Refresh(r.Context())
	resp := NewResponse().
		Data(newSnapshotView(s.records.Snapshot())).
		Notify(notificationsFrom(r.Context())...)
	if err != nil {
		resp.Status(http.StatusServiceUnavailable).Error("Não foi possível carregar as despesas.")
	}
	resp.Write(w)
}

func (s *Server) handleNewForm(w http.ResponseWriter, r *http.Request) {
	NewResponse().Data(core.BlankForm(s.now())).Write(w)
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.records.Get(r.PathValue("id"))
	if !ok {
		NotFoundError("Despesa não encontrada").Write(w)
		return
	}
	NewResponse().Data(core.FormFor(rec)).Write(w)
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Parse body error", log.FieldError, err)
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	form := p.Form()
	form.ID = ""
	draft, err := form.Draft()
	if err != nil {
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	}

	rec, err := s.records.Add(r.Context(), draft)
	notes := notificationsFrom(r.Context())
	if err != nil {
		if errors.Is(err, core.ErrValidation) {
			UnprocessableEntityError(validationMessage(err)).Write(w)
			return
		}
		InternalServerError("Não foi possível salvar a despesa.").Notify(notes...).Write(w)
		return
	}

	NewResponse().
		Status(http.StatusCreated).
		Header("Location", "/records/"+rec.ID+"/form").
		Data(newRecordView(rec)).
		Notify(notes...).
		TriggerRecordsChanged().
		TriggerFormReset().
		Write(w)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Parse body error", log.FieldError, err)
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	form := p.Form()
	form.ID = r.PathValue("id")
	draft, err := form.Draft()
	if err != nil {
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	}

	rec, err := s.records.Edit(r.Context(), draft)
	notes := notificationsFrom(r.Context())
	switch {
	case err == nil:
	case services.IsNotFound(err):
		NotFoundError("Despesa não encontrada").Write(w)
		return
	case errors.Is(err, core.ErrValidation):
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	default:
		InternalServerError("Não foi possível atualizar a despesa.").Notify(notes...).Write(w)
		return
	}

	NewResponse().
		Data(newRecordView(rec)).
		Notify(notes...).
		TriggerRecordsChanged().
		TriggerFormReset().
		Write(w)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	err := s.records.Remove(r.Context(), r.PathValue("id"))
	notes := notificationsFrom(r.Context())
	if err != nil {
		InternalServerError("Não foi possível remover a despesa.").Notify(notes...).Write(w)
		return
	}
	NewResponse().
		Data(newSnapshotView(s.records.Snapshot())).
		Notify(notes...).
		TriggerRecordsChanged().
		Write(w)
}

// handleExport downloads the collection in store order. An empty collection
// has nothing to export and answers 204.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	records := s.records.Collection()
	if len(records) == 0 {
		NewResponse().Status(http.StatusNoContent).Write(w)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, records); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Export failed",
			log.FieldOperation, log.OpExport, log.FieldError, err)
		InternalServerError("Não foi possível exportar as despesas.").Write(w)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Records exported",
		log.FieldOperation, log.OpExport, log.FieldCount, len(records))

	NewResponse().
		Header("Content-Disposition", `attachment; filename="`+export.FileName(s.now())+`"`).
		Raw(export.ContentType, buf.Bytes()).
		Write(w)
}
