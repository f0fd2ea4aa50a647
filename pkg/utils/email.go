package utils

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kavinesh/fleetbook-backend/internal/models"
)

var (
	emailFrom     = os.Getenv("EMAIL_FROM")
	emailPassword = os.Getenv("EMAIL_PASSWORD")
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	companyName   = "FleetBook Transport"
)

const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center; margin-bottom: 30px; background-color: #f9f9f9; padding: 20px;">
			<h2 style="color: #2c6fbb; margin: 0;">FleetBook</h2>
		</div>
`

const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>This is an automated message, please do not reply to this email.</p>
		</div>
	</div>
</body>
</html>
`

func sendEmail(to []string, subject, body string) error {
	if emailFrom == "" || emailPassword == "" || smtpHost == "" || smtpPort == "" {
		return fmt.Errorf("email configuration not set")
	}

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", companyName, emailFrom)
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n" + body)

	auth := smtp.PlainAuth("", emailFrom, emailPassword, smtpHost)
	addr := smtpHost + ":" + smtpPort
	return smtp.SendMail(addr, auth, emailFrom, to, []byte(message.String()))
}

// SendBookingStatusEmail tells the booker their booking was approved or
// rejected. Fire-and-forget: failures are logged, never surfaced.
func SendBookingStatusEmail(to string, booking *models.Booking) {
	subject := fmt.Sprintf("Booking #%d %s", booking.ID, booking.Status)
	body := emailHeader + fmt.Sprintf(`
		<p>Your booking for <strong>%s</strong> (%s &rarr; %s) is now <strong>%s</strong>.</p>
	`, booking.Purpose, booking.Pickup, booking.Delivery, booking.Status) + emailFooter

	if err := sendEmail([]string{to}, subject, body); err != nil {
		logrus.WithError(err).WithField("booking_id", booking.ID).Warn("failed to send booking status email")
	}
}

// SendTripAssignedEmail tells the driver about a newly scheduled trip.
func SendTripAssignedEmail(to string, trip *models.Trip) {
	subject := fmt.Sprintf("New trip #%d scheduled", trip.ID)
	body := emailHeader + fmt.Sprintf(`
		<p>You have been assigned trip <strong>#%d</strong>.</p>
		<p>Window: %s to %s. Bookings: %d.</p>
	`, trip.ID, trip.StartTime.Format("02 Jan 2006 15:04"), trip.EndTime.Format("02 Jan 2006 15:04"), len(trip.Bookings)) + emailFooter

	if err := sendEmail([]string{to}, subject, body); err != nil {
		logrus.WithError(err).WithField("trip_id", trip.ID).Warn("failed to send trip assignment email")
	}
}
