package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	clientdomain "github.com/BruksfildServices01/agenda-api/internal/domain/client"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/logging"
	"github.com/BruksfildServices01/agenda-api/internal/middleware"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/observability/metrics"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
	appointmentuc "github.com/BruksfildServices01/agenda-api/internal/usecase/appointment"
	clientuc "github.com/BruksfildServices01/agenda-api/internal/usecase/client"
	"github.com/BruksfildServices01/agenda-api/internal/whatsapp"
)

const validActions = "check, check_availability, create, schedule_appointment, cancel, cancel_appointment, " +
	"check_client, register_client, update_client, check_slot, confirm_appointment, add_dependent"

// ======================================================
// HANDLER
// ======================================================

// AgendaHandler serves the single action-keyed endpoint used by the WhatsApp
// automation.
type AgendaHandler struct {
	repo    domain.Repository
	logger  *logging.Logger
	metrics *metrics.AgendaMetrics

	checkAvailability *appointmentuc.CheckAvailability
	checkSlot         *appointmentuc.CheckSlot
	create            *appointmentuc.CreateAppointment
	cancel            *appointmentuc.CancelAppointment
	confirm           *appointmentuc.ConfirmAppointment

	checkClient    *clientuc.CheckClient
	registerClient *clientuc.RegisterClient
	updateClient   *clientuc.UpdateClient
	addDependent   *clientuc.AddDependent

	actions map[string]actionFunc
}

type actionFunc func(c *gin.Context, unit *models.Unit, p payload)

func NewAgendaHandler(
	repo domain.Repository,
	clients clientdomain.Repository,
	notifier whatsapp.Notifier,
	auditor audit.Auditor,
	logger *logging.Logger,
	m *metrics.AgendaMetrics,
) *AgendaHandler {
	resolver := clientuc.NewResolver(clients, logger)

	h := &AgendaHandler{
		repo:    repo,
		logger:  logger,
		metrics: m,

		checkAvailability: appointmentuc.NewCheckAvailability(repo),
		checkSlot:         appointmentuc.NewCheckSlot(repo),
		create:            appointmentuc.NewCreateAppointment(repo, clients, resolver, notifier, auditor),
		cancel:            appointmentuc.NewCancelAppointment(repo, auditor),
		confirm:           appointmentuc.NewConfirmAppointment(repo, auditor),

		checkClient:    clientuc.NewCheckClient(clients, resolver),
		registerClient: clientuc.NewRegisterClient(clients, resolver, auditor),
		updateClient:   clientuc.NewUpdateClient(clients, resolver, auditor),
		addDependent:   clientuc.NewAddDependent(clients, resolver),
	}

	h.actions = map[string]actionFunc{
		"check":                h.handleCheck,
		"check_availability":   h.handleCheck,
		"create":               h.handleCreate,
		"schedule_appointment": h.handleCreate,
		"cancel":               h.handleCancel,
		"cancel_appointment":   h.handleCancel,
		"check_client":         h.handleCheckClient,
		"register_client":      h.handleRegisterClient,
		"update_client":        h.handleUpdateClient,
		"check_slot":           h.handleCheckSlot,
		"confirm_appointment":  h.handleConfirm,
		"add_dependent":        h.handleAddDependent,
	}
	return h
}

// ======================================================
// ENTRY POINT
// ======================================================

func (h *AgendaHandler) Handle(c *gin.Context) {
	var p payload
	if err := c.ShouldBindJSON(&p); err != nil {
		httperr.Fail(c, h.logger, httperr.Validation("JSON inválido"))
		return
	}

	action := p.str("action")
	started := time.Now()
	defer func() {
		h.metrics.ObserveAction(action, metrics.OutcomeForStatus(c.Writer.Status()), time.Since(started).Seconds())
	}()

	// --------------------------------------------------
	// 1️⃣ Unidade
	// --------------------------------------------------
	unit, err := h.resolveUnit(c.Request.Context(), p)
	if err != nil {
		httperr.Fail(c, h.logger, err)
		return
	}

	// --------------------------------------------------
	// 2️⃣ Chave da unidade
	// --------------------------------------------------
	if !middleware.UnitKeyValid(unit, c.GetHeader(middleware.HeaderUnitAPIKey)) {
		h.logger.Warn("invalid unit api key", "unit_id", unit.ID)
		httperr.Fail(c, h.logger, httperr.Unauthorized("invalid_unit_key", "Chave de API da unidade inválida"))
		return
	}

	// --------------------------------------------------
	// 3️⃣ Ação
	// --------------------------------------------------
	fn, ok := h.actions[action]
	if !ok {
		httperr.Fail(c, h.logger, httperr.BusinessError{
			Kind:    httperr.KindValidation,
			Code:    "invalid_action",
			Message: "Ação inválida. Actions válidas: " + validActions,
		})
		return
	}

	h.logger.Debug("agenda action", "action", action, "unit_id", unit.ID)
	fn(c, unit, p)
}

func (h *AgendaHandler) resolveUnit(ctx context.Context, p payload) (*models.Unit, error) {
	var (
		unit *models.Unit
		err  error
	)

	switch {
	case p.str("instance_name") != "":
		instance := p.str("instance_name")
		unit, err = h.repo.FindUnitByInstance(ctx, instance)
		if err != nil {
			return nil, err
		}
		if unit == nil {
			return nil, httperr.NotFound("unit_not_found",
				fmt.Sprintf("Unidade não encontrada para a instância \"%s\"", instance))
		}

	case p.str("unit_id") != "":
		id, perr := uuid.Parse(p.str("unit_id"))
		if perr == nil {
			unit, err = h.repo.FindUnit(ctx, id)
			if err != nil {
				return nil, err
			}
		}
		if unit == nil {
			return nil, httperr.NotFound("unit_not_found", "Unidade não encontrada")
		}

	default:
		return nil, httperr.Validation("É necessário fornecer instance_name ou unit_id")
	}

	if !timezone.IsValid(unit.Timezone) {
		unit.Timezone = timezone.DefaultTimezone
	}
	return unit, nil
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AgendaHandler) handleCheck(c *gin.Context, unit *models.Unit, p payload) {
	out, err := h.checkAvailability.Execute(c.Request.Context(), appointmentuc.CheckAvailabilityInput{
		Unit:         unit,
		Date:         p.str("date", "data"),
		Professional: p.str("professional", "barbeiro_nome"),
	})
	if err != nil {
		httperr.Fail(c, h.logger, err)
		return
	}

	body := gin.H{
		"success":         true,
		"date":            out.Date,
		"available_slots": out.Slots,
	}
	if out.Message != "" {
		body["message"] = out.Message
	} else {
		body["services"] = out.Services
	}
	c.JSON(http.StatusOK, body)
}

func (h *AgendaHandler) handleCheckSlot(c *gin.Context, unit *models.Unit, p payload) {
	out, err := h.checkSlot.Execute(c.Request.Context(), appointmentuc.CheckSlotInput{
		Unit:         unit,
		Date:         p.str("date", "data"),
		Time:         p.str("time", "hora", "horario"),
		Professional: p.str("professional", "barbeiro_nome"),
	})
	if err != nil {
		httperr.Fail(c, h.logger, err)
		return
	}

	body := gin.H{
		"success":      true,
		"available":    out.Available,
		"professional": out.Professional,
		"datetime":     out.Datetime,
		"reason":       out.Reason,
	}
	if out.ProfessionalID != nil {
		body["professional_id"] = out.ProfessionalID
	}
	if len(out.Conflicts) > 0 {
		body["conflicts"] = out.Conflicts
	}
	c.JSON(http.StatusOK, body)
}

// ======================================================
// BOOKING
// ======================================================

func (h *AgendaHandler) handleCreate(c *gin.Context, unit *models.Unit, p payload) {
	in := appointmentuc.CreateAppointmentInput{
		Unit:        unit,
		ClientName:  p.str("nome", "client_name"),
		ClientPhone: p.str("telefone", "client_phone"),
		BirthDate:   p.opt("data_nascimento", "birth_date"),
		Notes:       p.opt("observacoes", "observations", "notes"),
		Tags:        p["tags"],
		BarberName:  p.str("barbeiro_nome", "professional"),
		ServiceName: p.str("servico", "service"),
		Datetime:    p.str("data", "datetime", "date"),

		IsDependent:           p.flag("is_dependent"),
		DependentName:         p.str("dependent_name", "nome_dependente"),
		DependentRelationship: p.opt("dependent_relationship", "relationship", "parentesco"),
		DependentBirthDate:    p.opt("dependent_birth_date"),
	}

	out, err := h.create.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Fail(c, h.logger, err)
		return
	}

	ap := out.Appointment
	var responsibleName *string
	if ap.IsDependent {
		responsibleName = &out.Client.Name
	}

	body := gin.H{
		"success":        true,
		"message":        "Agendamento criado com sucesso!",
		"client_created": out.ClientCreated,
		"client": gin.H{
			"id":         out.Client.ID,
			"name":       out.Client.Name,
			"phone":      out.Client.Phone,
			"birth_date": out.Client.BirthDate,
			"notes":      out.Client.Notes,
			"tags":       out.Client.Tags,
			"is_new":     out.ClientCreated,
		},
		"dependent": nil,
		"appointment": gin.H{
			"id":                ap.ID,
			"client_name":       ap.ClientName,
			"is_dependent":      ap.IsDependent,
			"dependent_id":      ap.DependentID,
			"responsible_name":  responsibleName,
			"responsible_phone": ap.ClientPhone,
			"barber":            out.Barber.Name,
			"service":           out.Service.Name,
			"start_time":        ap.StartTime,
			"end_time":          ap.EndTime,
			"total_price":       ap.TotalPrice,
			"status":            ap.Status,
		},
	}
	if out.Dependent != nil {
		body["dependent"] = gin.H{
			"id":           out.Dependent.ID,
			"name":         out.Dependent.Name,
			"relationship": out.Dependent.Relationship,
		}
	}
	c.JSON(http.StatusOK, body)
}

func (h *AgendaHandler) handleCancel(c *gin.Context, unit *models.Unit, p payload) {
	in := appointmentuc.CancelAppointmentInput{
		Unit:   unit,
		Phone:  p.str("telefone", "client_phone", "phone"),
		Date:   p.str("data", "datetime"),
		Source: domain.SourceWhatsApp,
	}
	if raw := p.str("appointment_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httperr.Fail(c, h.logger, domain.ErrNotFound)
			return
		}
		in.AppointmentID = &id
	}

	ap, err := h.cancel.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Fail(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"message":               "Agendamento cancelado com sucesso!",
		"cancelled_appointment": ap,
	})
}

func (h *AgendaHandler) handleConfirm(c *gin.Context, unit *models.Unit, p payload) {
	out, err := h.confirm.Execute(c.Request.Context(), appointmentuc.ConfirmAppointmentInput{
		Unit:     unit,
		Phone:    p.str("phone", "telefone", "client_phone"),
		Response: p.str("response", "resposta"),
	})
	if err != nil {
		httperr.Fail(c, h.logger, err)
		return
	}

	ap := out.Appointment
	message := fmt.Sprintf("Agendamento de %s confirmado com sucesso", ap.ClientName)
	if out.Action == appointmentuc.ActionCancelled {
		message = fmt.Sprintf("Agendamento de %s cancelado", ap.ClientName)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"action":         out.Action,
		"appointment_id": ap.ID,
		"client_name":    ap.ClientName,
		"start_time":     ap.StartTime,
		"message":        message,
	})
}

// ======================================================
// CLIENTS
// ======================================================

func (h *AgendaHandler) handleCheckClient(c *gin.Context, unit *models.Unit, p payload) {
	out, err := h.checkClient.Execute(c.Request.Context(), clientuc.CheckClientInput{
		UnitID: unit.ID,
		Phone:  p.str("telefone", "client_phone", "phone"),
	})
	if err != nil {
		httperr.Fail(c, h.logger, err)
		return
	}

	if !out.Found {
		c.JSON(http.StatusOK, gin.H{
			"status":       "nao_encontrado",
			"cliente":      nil,
			"dependentes":  []any{},
			"mensagem":     "Cliente não cadastrado. Iniciar cadastro obrigatório.",
			"proxima_acao": "cadastrar_cliente",
		})
		return
	}

	cl := out.Client
	dependents := make([]gin.H, 0, len(out.Dependents))
	for _, d := range out.Dependents {
		dependents = append(dependents, gin.H{
			"id":           d.ID,
			"name":         d.Name,
			"birth_date":   d.BirthDate,
			"relationship": d.Relationship,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status":              "encontrado",
		"cliente":             cl.Name,
		"ultimo_servico":      out.LastService,
		"ultimo_profissional": out.LastProfessional,
		"cliente_completo": gin.H{
			"id":            cl.ID,
			"name":          cl.Name,
			"phone":         cl.Phone,
			"birth_date":    cl.BirthDate,
			"notes":         cl.Notes,
			"tags":          cl.Tags,
			"total_visits":  cl.TotalVisits,
			"last_visit_at": cl.LastVisitAt,
			"created_at":    cl.CreatedAt,
		},
		"dependentes":  dependents,
		"proxima_acao": "oferecer_agendamento",
	})
}

func (h *AgendaHandler) handleRegisterClient(c *gin.Context, unit *models.Unit, p payload) {
	cl, err := h.registerClient.Execute(c.Request.Context(), clientuc.RegisterClientInput{
		UnitID:    unit.ID,
		CompanyID: unit.CompanyID,
		Name:      p.str("nome", "client_name", "name"),
		Phone:     p.str("telefone", "client_phone", "phone"),
		BirthDate: p.opt("data_nascimento", "birth_date"),
		Notes:     p.opt("observacoes", "observations", "notes"),
		Tags:      p["tags"],
	})
	if err != nil {
		httperr.Fail(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cliente cadastrado com sucesso!",
		"client": gin.H{
			"id":           cl.ID,
			"name":         cl.Name,
			"phone":        cl.Phone,
			"birth_date":   cl.BirthDate,
			"notes":        cl.Notes,
			"tags":         cl.Tags,
			"total_visits": cl.TotalVisits,
			"created_at":   cl.CreatedAt,
		},
	})
}

func (h *AgendaHandler) handleUpdateClient(c *gin.Context, unit *models.Unit, p payload) {
	out, err := h.updateClient.Execute(c.Request.Context(), clientuc.UpdateClientInput{
		UnitID:    unit.ID,
		Phone:     p.str("telefone", "client_phone", "phone"),
		Name:      p.present("nome", "client_name", "name"),
		BirthDate: p.opt("data_nascimento", "birth_date"),
		Notes:     p.present("observacoes", "observations", "notes"),
		NewPhone:  p.opt("novo_telefone", "new_phone"),
	})
	if err != nil {
		httperr.Fail(c, h.logger, err)
		return
	}

	cl := out.Client
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Dados atualizados com sucesso",
		"updated_fields": out.UpdatedFields,
		"client": gin.H{
			"id":         cl.ID,
			"name":       cl.Name,
			"phone":      cl.Phone,
			"birth_date": cl.BirthDate,
			"notes":      cl.Notes,
		},
	})
}

func (h *AgendaHandler) handleAddDependent(c *gin.Context, unit *models.Unit, p payload) {
	out, err := h.addDependent.Execute(c.Request.Context(), clientuc.AddDependentInput{
		UnitID:       unit.ID,
		CompanyID:    unit.CompanyID,
		Phone:        p.str("phone", "telefone", "client_phone"),
		Name:         p.str("dependent_name", "nome_dependente"),
		Relationship: p.opt("relationship", "parentesco", "dependent_relationship"),
		BirthDate:    p.opt("dependent_birth_date", "data_nascimento"),
	})
	if err != nil {
		httperr.Fail(c, h.logger, err)
		return
	}

	d := out.Dependent
	dep := gin.H{
		"id":          d.ID,
		"name":        d.Name,
		"client_id":   out.Client.ID,
		"client_name": out.Client.Name,
	}
	message := fmt.Sprintf("Dependente \"%s\" já está cadastrado", d.Name)
	if !out.AlreadyExists {
		dep["birth_date"] = d.BirthDate
		dep["relationship"] = d.Relationship
		message = fmt.Sprintf("Dependente \"%s\" cadastrado com sucesso", d.Name)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"already_exists": out.AlreadyExists,
		"dependent":      dep,
		"message":        message,
	})
}
