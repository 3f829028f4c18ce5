// services/notifier.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
)

// Notifier sends booking confirmation messages via Twilio. It is disabled
// (no-op with a log line) when the Twilio env vars are not set, so local
// development never needs credentials.
type Notifier struct {
	db      *gorm.DB
	client  *twilio.RestClient
	enabled bool
}

func NewNotifier(db *gorm.DB) *Notifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	n := &Notifier{db: db, enabled: accountSid != "" && authToken != ""}
	if n.enabled {
		n.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		})
	}
	return n
}

// BookingConfirmed fires a confirmation message to the booking's client.
// Fire and forget: delivery failures are logged, never surfaced.
func (n *Notifier) BookingConfirmed(b *models.Booking) {
	if !n.enabled {
		log.Printf("Notifier disabled, skipping confirmation for booking %s", b.ID)
		return
	}
	go n.sendConfirmation(b)
}

func (n *Notifier) sendConfirmation(b *models.Booking) {
	var client models.User
	if err := n.db.First(&client, "id = ?", b.ClientID).Error; err != nil {
		log.Printf("Booking %s: failed to load client for notification: %v", b.ID, err)
		return
	}
	if client.Phone == "" {
		return
	}

	var serviceNames []string
	for _, item := range b.Items {
		serviceNames = append(serviceNames, item.ServiceName)
	}
	message := fmt.Sprintf("Hi %s, your appointment (%s) is confirmed for %s.",
		client.FirstName,
		strings.Join(serviceNames, ", "),
		b.StartTime.Format("02/01/2006 15:04"))

	// Prefer WhatsApp for E.164 numbers, like the reminder flow
	to := client.Phone
	from := os.Getenv("TWILIO_PHONE_NUMBER")
	if strings.HasPrefix(client.Phone, "+") && os.Getenv("TWILIO_WHATSAPP_NUMBER") != "" {
		to = "whatsapp:" + client.Phone
		from = "whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(message)

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send confirmation to %s: %v", client.Phone, err)
		return
	}
	if resp.Sid != nil {
		log.Printf("Confirmation sent to %s, SID: %s", client.Phone, *resp.Sid)
	}
}
