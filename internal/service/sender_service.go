package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"path/filepath"
	"time"

	"wanderstay/internal/db"
	"wanderstay/internal/entities"
	"wanderstay/internal/utils"
)

type SenderService struct {
}

func NewSenderService() *SenderService {
	return &SenderService{}
}

// SendBookingEmail renders and sends the booking status email. The send is
// asynchronous; failures are logged, never returned.
func (s *SenderService) SendBookingEmail(res *db.Reservation, resourceName, status string) {
	emailData := entities.BookingEmailData{
		UserName:           res.UserName,
		ReservationCode:    res.Code,
		ResourceName:       resourceName,
		Rooms:              res.Rooms,
		StartDateFormatted: utils.FormatDate(res.StartDate),
		EndDateFormatted:   utils.FormatDate(res.EndDate),
		CurrentYear:        time.Now().UTC().Year(),
		Language:           res.Language,
		Status:             status,
	}

	var emailSubject, plainTextBody string
	switch res.Language {
	case "es":
		emailSubject = fmt.Sprintf("Tu reserva en Wanderstay está %s - Código: %s", status, emailData.ReservationCode)
		plainTextBody = fmt.Sprintf(
			"Hola %s,\n\nTu reserva en Wanderstay está %s.\n\n"+
				"Detalles de la reserva:\n"+
				"Código: %s\n"+
				"Alojamiento/Guía: %s\n"+
				"Check-in: %s\n"+
				"Check-out: %s\n\n"+
				"Gracias por elegir Wanderstay.",
			emailData.UserName, status, emailData.ReservationCode, emailData.ResourceName,
			emailData.StartDateFormatted, emailData.EndDateFormatted,
		)
	case "it":
		emailSubject = fmt.Sprintf("La tua prenotazione Wanderstay è %s - Codice: %s", status, emailData.ReservationCode)
		plainTextBody = fmt.Sprintf(
			"Ciao %s,\n\nLa tua prenotazione su Wanderstay è %s.\n\n"+
				"Dettagli della prenotazione:\n"+
				"Codice: %s\n"+
				"Struttura/Guida: %s\n"+
				"Check-in: %s\n"+
				"Check-out: %s\n\n"+
				"Grazie per aver scelto Wanderstay.",
			emailData.UserName, status, emailData.ReservationCode, emailData.ResourceName,
			emailData.StartDateFormatted, emailData.EndDateFormatted,
		)
	default:
		emailSubject = fmt.Sprintf("Your Wanderstay booking is %s - Code: %s", status, emailData.ReservationCode)
		plainTextBody = fmt.Sprintf(
			"Hello %s,\n\nYour Wanderstay booking is %s.\n\n"+
				"Booking details:\n"+
				"Code: %s\n"+
				"Stay/Guide: %s\n"+
				"Check-in: %s\n"+
				"Check-out: %s\n\n"+
				"Thank you for choosing Wanderstay.",
			emailData.UserName, status, emailData.ReservationCode, emailData.ResourceName,
			emailData.StartDateFormatted, emailData.EndDateFormatted,
		)
	}

	tmplPath := filepath.Join("internal", "templates", "booking_email.html")
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		log.Printf("Could not parse email template %s: %v", tmplPath, err)
		return
	}

	var htmlBodyBuffer bytes.Buffer
	if err := tmpl.Execute(&htmlBodyBuffer, emailData); err != nil {
		log.Printf("Could not execute email template for reservation %s: %v", emailData.ReservationCode, err)
	}
	htmlBody := htmlBodyBuffer.String()

	go func(toEmail, userName, subject, plainBody, htmlBodyContent string) {
		if errEmail := SendEmailWithSendGrid(toEmail, userName, subject, plainBody, htmlBodyContent); errEmail != nil {
			log.Printf("Email for reservation %s failed: %v", emailData.ReservationCode, errEmail)
		}
	}(res.UserEmail, emailData.UserName, emailSubject, plainTextBody, htmlBody)
}

// SendBookingSMS sends a short status notification. Failures are logged.
func (s *SenderService) SendBookingSMS(res *db.Reservation, status string) {
	var smsMessage string
	switch res.Language {
	case "es":
		smsMessage = fmt.Sprintf("Wanderstay: ¡Tu reserva %s está %s!\nCheck-in: %s.\nMás detalles en tu correo.",
			res.Code, status, utils.FormatDate(res.StartDate))
	case "it":
		smsMessage = fmt.Sprintf("Wanderstay: La tua prenotazione %s è %s!\nCheck-in: %s.\nAltri dettagli nella tua email.",
			res.Code, status, utils.FormatDate(res.StartDate))
	default:
		smsMessage = fmt.Sprintf("Wanderstay: Booking %s is %s!\nCheck-in: %s.\nMore details in your email.",
			res.Code, status, utils.FormatDate(res.StartDate))
	}

	if errSMS := SendSMS(res.UserPhone, smsMessage); errSMS != nil {
		log.Printf("Reservation %s updated, but the SMS to %s failed: %v", res.Code, res.UserPhone, errSMS)
	}
}

// StatusTranslation localizes a reservation status for notifications.
func StatusTranslation(status, lang string) string {
	switch lang {
	case "es":
		switch status {
		case "pending":
			return "pendiente"
		case "confirmed":
			return "confirmada"
		case "finished":
			return "finalizada"
		case "canceled":
			return "cancelada"
		}
	case "it":
		switch status {
		case "pending":
			return "in attesa"
		case "confirmed":
			return "confermata"
		case "finished":
			return "conclusa"
		case "canceled":
			return "annullata"
		}
	}
	return status
}
