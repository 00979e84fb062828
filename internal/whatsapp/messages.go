package whatsapp

import (
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
)

const dateTimeLayout = "02/01/2006 15:04"

const DefaultReminderTemplate = "⏰ *Lembrete de Agendamento*\n\n" +
	"Olá {nome}!\n\n" +
	"Você tem um horário marcado:\n\n" +
	"📅 *Data:* {data}\n" +
	"🕐 *Hora:* {hora}\n" +
	"✂️ *Serviço:* {servico}\n" +
	"💈 *Profissional:* {profissional}\n\n" +
	"Responda *SIM* para confirmar ou *NÃO* para cancelar."

func ConfirmationText(clientName string, start time.Time, tz, service, professional string, price float64) string {
	local := start.In(timezone.Location(tz))

	return "✅ *Agendamento Confirmado!*\n\n" +
		fmt.Sprintf("Olá %s!\n\n", clientName) +
		"Seu agendamento foi realizado com sucesso:\n\n" +
		fmt.Sprintf("📅 *Data/Hora:* %s\n", local.Format(dateTimeLayout)) +
		fmt.Sprintf("✂️ *Serviço:* %s\n", service) +
		fmt.Sprintf("💈 *Profissional:* %s\n", professional) +
		fmt.Sprintf("💰 *Valor:* R$ %.2f\n\n", price) +
		"Até lá! 💈"
}

// ReminderText fills the unit's template, or the default one, for ap.
func ReminderText(template string, ap *models.Appointment, tz string) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultReminderTemplate
	}
	local := ap.StartTime.In(timezone.Location(tz))

	r := strings.NewReplacer(
		"{nome}", ap.ClientName,
		"{data}", local.Format("02/01/2006"),
		"{hora}", local.Format("15:04"),
		"{servico}", ap.Service.Name,
		"{profissional}", ap.Barber.Name,
	)
	return r.Replace(template)
}
