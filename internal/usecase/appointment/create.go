package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	clientdomain "github.com/BruksfildServices01/agenda-api/internal/domain/client"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/phone"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
	clientuc "github.com/BruksfildServices01/agenda-api/internal/usecase/client"
	"github.com/BruksfildServices01/agenda-api/internal/validators"
	"github.com/BruksfildServices01/agenda-api/internal/whatsapp"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	Unit *models.Unit

	ClientName  string
	ClientPhone string
	BirthDate   *string
	Notes       *string
	Tags        any

	BarberName  string
	ServiceName string
	Datetime    string // unit-local wall clock

	IsDependent           bool
	DependentName         string
	DependentRelationship *string
	DependentBirthDate    *string
}

type CreateAppointmentOutput struct {
	Appointment   *models.Appointment
	Client        *models.Client
	ClientCreated bool
	Dependent     *models.ClientDependent
	Barber        *models.Barber
	Service       *models.Service
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	clients  clientdomain.Repository
	resolver *clientuc.Resolver
	notifier whatsapp.Notifier
	audit    audit.Auditor
}

func NewCreateAppointment(
	repo domain.Repository,
	clients clientdomain.Repository,
	resolver *clientuc.Resolver,
	notifier whatsapp.Notifier,
	auditor audit.Auditor,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		clients:  clients,
		resolver: resolver,
		notifier: notifier,
		audit:    auditor,
	}
}

type validatedCreate struct {
	name   string
	digits string
	notes  *string
	tags   []string
}

// validate applies the input gate in order; the first failure wins.
func (in CreateAppointmentInput) validate() (*validatedCreate, error) {
	if in.ClientName == "" || in.BarberName == "" || in.ServiceName == "" || in.Datetime == "" {
		return nil, httperr.Validation("Campos obrigatórios: nome/client_name, barbeiro_nome/professional, servico/service, data/datetime")
	}
	if err := validators.StringLength(in.ClientName, validators.MaxNameLength, "Nome"); err != nil {
		return nil, err
	}
	if in.Notes != nil {
		if err := validators.StringLength(*in.Notes, validators.MaxNotesLength, "Observações"); err != nil {
			return nil, err
		}
	}
	digits, err := validators.Phone(in.ClientPhone)
	if err != nil {
		return nil, err
	}
	if err := validators.Date(in.Datetime); err != nil {
		return nil, err
	}
	tags, err := validators.Tags(in.Tags)
	if err != nil {
		return nil, err
	}

	v := &validatedCreate{
		name:   validators.Sanitize(in.ClientName),
		digits: digits,
		tags:   tags,
	}
	if in.Notes != nil {
		if notes := validators.Sanitize(*in.Notes); notes != "" {
			v.notes = &notes
		}
	}
	if v.name == "" {
		return nil, httperr.Validation("Nome é obrigatório")
	}
	return v, nil
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*CreateAppointmentOutput, error) {

	// --------------------------------------------------
	// 1️⃣ Validação de entrada
	// --------------------------------------------------
	v, err := in.validate()
	if err != nil {
		return nil, err
	}

	unit := in.Unit
	tz := unitTimezone(unit)

	start, err := timezone.ParseLocal(in.Datetime, tz)
	if err != nil {
		return nil, httperr.Validation("Formato de data inválido. Use YYYY-MM-DD ou YYYY-MM-DDTHH:MM")
	}

	// --------------------------------------------------
	// 2️⃣ Profissional e serviço
	// --------------------------------------------------
	barber, err := uc.repo.FindActiveBarber(ctx, unit.ID, in.BarberName)
	if err != nil {
		return nil, err
	}
	if barber == nil {
		return nil, httperr.NotFound("barber_not_found",
			fmt.Sprintf("Barbeiro \"%s\" não encontrado", in.BarberName))
	}

	service, err := uc.repo.FindActiveService(ctx, unit.ID, in.ServiceName)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, httperr.NotFound("service_not_found",
			fmt.Sprintf("Serviço \"%s\" não encontrado", in.ServiceName))
	}

	end := start.Add(time.Duration(service.DurationMinutes) * time.Minute)

	// --------------------------------------------------
	// 3️⃣ Conflito de horário (antes de tocar em clientes)
	// --------------------------------------------------
	clashes, err := uc.repo.ListOverlapping(ctx, barber.ID, start, end)
	if err != nil {
		return nil, err
	}
	if len(clashes) > 0 {
		return nil, slotConflict(barber)
	}

	// --------------------------------------------------
	// 4️⃣ Cliente (nunca sobrescreve cadastro existente)
	// --------------------------------------------------
	client, created, err := uc.resolveClient(ctx, unit, in, v)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ Dependente
	// --------------------------------------------------
	displayName := client.Name
	birthDate := client.BirthDate
	if birthDate == nil {
		birthDate = in.BirthDate
	}
	var dependent *models.ClientDependent

	if in.IsDependent && in.DependentName != "" {
		depName := validators.Sanitize(in.DependentName)
		if err := validators.StringLength(depName, validators.MaxNameLength, "Nome do dependente"); err != nil {
			return nil, err
		}
		dependent, _, err = clientuc.FindOrCreateDependent(
			ctx, uc.clients, client, depName,
			in.DependentRelationship, in.DependentBirthDate, unit.CompanyID,
		)
		if err != nil {
			return nil, err
		}
		displayName = dependent.Name
		birthDate = dependent.BirthDate
		if birthDate == nil {
			birthDate = in.DependentBirthDate
		}
	}

	// --------------------------------------------------
	// 6️⃣ Criação do agendamento (status centralizado)
	// --------------------------------------------------
	// the responsible client's stored number stays the contact
	var contact *string
	switch {
	case client.Phone != nil && *client.Phone != "":
		contact = strPtr(*client.Phone)
	case v.digits != "":
		contact = strPtr(phone.Normalize(v.digits))
	}

	ap := &models.Appointment{
		UnitID:          unit.ID,
		CompanyID:       unit.CompanyID,
		BarberID:        barber.ID,
		ServiceID:       service.ID,
		ClientID:        &client.ID,
		ClientName:      displayName,
		ClientPhone:     contact,
		ClientBirthDate: birthDate,
		IsDependent:     in.IsDependent,
		StartTime:       start,
		EndTime:         end,
		TotalPrice:      service.Price,
		Status:          string(domain.InitialStatus()),
		Source:          domain.SourceWhatsApp,
	}
	if dependent != nil {
		ap.DependentID = &dependent.ID
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		if errors.Is(err, domain.ErrSlotTaken) {
			return nil, slotConflict(barber)
		}
		return nil, err
	}
	ap.Barber = *barber
	ap.Service = *service

	// --------------------------------------------------
	// 7️⃣ Confirmação via WhatsApp (fire-and-forget)
	// --------------------------------------------------
	if contact != nil && unit.CanMessage() {
		uc.notifier.Notify(whatsapp.Message{
			Kind:          whatsapp.KindConfirmation,
			UnitID:        unit.ID,
			AppointmentID: ap.ID,
			Instance:      unit.EvolutionInstanceName,
			APIKey:        unit.EvolutionAPIKey,
			Number:        phone.ForMessaging(*contact),
			Text:          whatsapp.ConfirmationText(displayName, start, tz, service.Name, barber.Name, service.Price),
		})
	}

	// --------------------------------------------------
	// 8️⃣ Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UnitID:   unit.ID,
		Action:   audit.ActionAppointmentCreated,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"source": ap.Source, "client_created": created},
	})

	return &CreateAppointmentOutput{
		Appointment:   ap,
		Client:        client,
		ClientCreated: created,
		Dependent:     dependent,
		Barber:        barber,
		Service:       service,
	}, nil
}

func (uc *CreateAppointment) resolveClient(
	ctx context.Context,
	unit *models.Unit,
	in CreateAppointmentInput,
	v *validatedCreate,
) (*models.Client, bool, error) {

	var (
		existing *models.Client
		err      error
	)
	if v.digits != "" {
		existing, err = uc.resolver.ByPhone(ctx, unit.ID, v.digits)
	} else {
		existing, err = uc.resolver.ByName(ctx, unit.ID, v.name, in.BirthDate)
	}
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	c := &models.Client{
		UnitID:    unit.ID,
		CompanyID: unit.CompanyID,
		Name:      v.name,
		BirthDate: in.BirthDate,
		Notes:     v.notes,
		Tags:      v.tags,
	}
	if v.digits != "" {
		c.Phone = strPtr(phone.Normalize(v.digits))
	}
	if err := uc.clients.Create(ctx, c); err != nil {
		return nil, false, err
	}
	return c, true, nil
}

func slotConflict(barber *models.Barber) error {
	return httperr.Conflict("slot_conflict",
		fmt.Sprintf("Horário indisponível: %s já possui agendamento neste horário", barber.Name)).
		WithDetails(map[string]any{"barber": barber.Name, "barber_id": barber.ID})
}
