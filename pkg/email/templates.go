package email

import (
	"fmt"
)

// TicketEmailData contains the data needed for ticket notification emails.
// Language selects the recipient's preferred wording ("fa" or "en").
type TicketEmailData struct {
	FirstName      string
	Email          string
	TicketSubject  string
	TechnicianName string
	Status         string
	Language       string
	AppName        string
}

// BuildTicketAssignedEmail creates the message sent to a ticket owner when an
// admin assigns a technician.
func BuildTicketAssignedEmail(data TicketEmailData) Message {
	appName := data.AppName
	if appName == "" {
		appName = "Hamyar"
	}

	firstName := data.FirstName
	if firstName == "" {
		firstName = "there"
	}

	var subject, greeting, line1, line2, closing string

	if data.Language == "fa" {
		subject = "تیکت شما به کارشناس واگذار شد | Your ticket was assigned"
		greeting = "سلام،"
		line1 = fmt.Sprintf("تیکت «%s» به کارشناس %s واگذار شد.", data.TicketSubject, data.TechnicianName)
		line2 = "کارشناس ما به زودی پاسخ شما را ارسال می‌کند."
		closing = fmt.Sprintf("تیم پشتیبانی %s", appName)
	} else {
		subject = "Your ticket was assigned | تیکت شما واگذار شد"
		greeting = fmt.Sprintf("Hi %s,", firstName)
		line1 = fmt.Sprintf("Your ticket %q has been assigned to %s.", data.TicketSubject, data.TechnicianName)
		line2 = "Our technician will get back to you shortly."
		closing = fmt.Sprintf("The %s Support Team", appName)
	}

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: plainTicketBody(greeting, line1, line2, closing),
		HTMLBody: htmlTicketBody(greeting, line1, line2, closing),
	}
}

// BuildTicketStatusEmail creates the message sent to a ticket owner when the
// ticket status changes.
func BuildTicketStatusEmail(data TicketEmailData) Message {
	appName := data.AppName
	if appName == "" {
		appName = "Hamyar"
	}

	firstName := data.FirstName
	if firstName == "" {
		firstName = "there"
	}

	var subject, greeting, line1, line2, closing string

	if data.Language == "fa" {
		subject = "وضعیت تیکت شما به‌روزرسانی شد | Your ticket status was updated"
		greeting = "سلام،"
		line1 = fmt.Sprintf("وضعیت تیکت «%s» به «%s» تغییر کرد.", data.TicketSubject, statusLabel(data.Status, "fa"))
		line2 = "برای مشاهده جزئیات به پنل کاربری خود مراجعه کنید."
		closing = fmt.Sprintf("تیم پشتیبانی %s", appName)
	} else {
		subject = "Your ticket status was updated | وضعیت تیکت شما تغییر کرد"
		greeting = fmt.Sprintf("Hi %s,", firstName)
		line1 = fmt.Sprintf("The status of your ticket %q changed to %q.", data.TicketSubject, statusLabel(data.Status, "en"))
		line2 = "Visit your dashboard for details."
		closing = fmt.Sprintf("The %s Support Team", appName)
	}

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: plainTicketBody(greeting, line1, line2, closing),
		HTMLBody: htmlTicketBody(greeting, line1, line2, closing),
	}
}

func statusLabel(status, language string) string {
	if language == "fa" {
		switch status {
		case "open":
			return "باز"
		case "in_progress":
			return "در حال بررسی"
		case "waiting":
			return "در انتظار پاسخ"
		case "closed":
			return "بسته شده"
		}
		return status
	}

	switch status {
	case "open":
		return "open"
	case "in_progress":
		return "in progress"
	case "waiting":
		return "waiting for reply"
	case "closed":
		return "closed"
	}
	return status
}

func plainTicketBody(greeting, line1, line2, closing string) string {
	return fmt.Sprintf(`%s

%s

%s

%s`, greeting, line1, line2, closing)
}

func htmlTicketBody(greeting, line1, line2, closing string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Vazirmatn, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">%s</h2>
    <p>%s</p>
    <p>%s</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px; border-top: 1px solid #e5e7eb; padding-top: 20px;">
        %s
    </p>
</body>
</html>`, greeting, line1, line2, closing)
}
