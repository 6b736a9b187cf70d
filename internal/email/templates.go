package email

import (
    "bytes"
    "fmt"
    "html/template"
)

// Templates for the notification emails. Bodies stay short: the site is
// the source of truth, the mail is a prompt.

var bookingTmpl = template.Must(template.New("booking").Parse(`
<h2>{{.Heading}}</h2>
<p>Dear {{.Ev.CustomerName}},</p>
<p>{{.Lead}}</p>
<table>
  <tr><td>Venue</td><td>{{.Ev.Venue}}</td></tr>
  <tr><td>Event type</td><td>{{.Ev.EventType}}</td></tr>
  <tr><td>Date</td><td>{{.Ev.EventDate}}</td></tr>
  {{if .Ev.StallID}}<tr><td>Stall</td><td>{{.Ev.StallID}}</td></tr>
  {{else}}<tr><td>Duration</td><td>{{.Ev.Duration}} day(s)</td></tr>{{end}}
  <tr><td>Total</td><td>LKR {{.Ev.TotalAmount}}</td></tr>
</table>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
<p>Sahas Uyana</p>
`))

type bookingTmplData struct {
    Heading string
    Lead    string
    Reason  string
    Ev      *BookingEvent
}

func renderBooking(data bookingTmplData) string {
    var buf bytes.Buffer
    if err := bookingTmpl.Execute(&buf, data); err != nil {
        // Template and data are fixed shapes; this cannot fail at runtime.
        return data.Lead
    }
    return buf.String()
}

// BookingSubmission is the receipt sent to the customer right after a
// request is submitted.
func BookingSubmission(ev *BookingEvent) *Message {
    return &Message{
        To:      ev.CustomerEmail,
        ToName:  ev.CustomerName,
        Subject: "Booking Request Received - Sahas Uyana",
        HTMLContent: renderBooking(bookingTmplData{
            Heading: "Booking Request Received",
            Lead:    "We have received your booking request. Our team will review it and get back to you shortly.",
            Ev:      ev,
        }),
    }
}

// BookingConfirmation is sent to the customer when an admin confirms.
func BookingConfirmation(ev *BookingEvent) *Message {
    return &Message{
        To:      ev.CustomerEmail,
        ToName:  ev.CustomerName,
        Subject: "Booking Confirmed - Sahas Uyana",
        HTMLContent: renderBooking(bookingTmplData{
            Heading: "Booking Confirmed",
            Lead:    "Good news: your booking has been confirmed. We look forward to hosting your event.",
            Ev:      ev,
        }),
    }
}

// BookingRejection is sent to the customer when an admin cancels,
// including the reason when one was given.
func BookingRejection(ev *BookingEvent) *Message {
    return &Message{
        To:      ev.CustomerEmail,
        ToName:  ev.CustomerName,
        Subject: "Booking Request Update - Sahas Uyana",
        HTMLContent: renderBooking(bookingTmplData{
            Heading: "Booking Request Update",
            Lead:    "Unfortunately we are unable to accommodate your booking request.",
            Reason:  ev.RejectionReason,
            Ev:      ev,
        }),
    }
}

// AdminBookingAlert notifies the admin inbox of a new request.
func AdminBookingAlert(ev *BookingEvent, adminEmail string) *Message {
    return &Message{
        To:      adminEmail,
        Subject: fmt.Sprintf("New booking request #%d - %s", ev.BookingID, ev.Venue),
        HTMLContent: renderBooking(bookingTmplData{
            Heading: "New Booking Request",
            Lead: fmt.Sprintf("%s (%s, %s) submitted a new booking request. Review it in the admin dashboard.",
                ev.CustomerName, ev.CustomerEmail, ev.CustomerPhone),
            Ev: ev,
        }),
    }
}

var contactTmpl = template.Must(template.New("contact").Parse(`
<h2>{{.Heading}}</h2>
<p><strong>From:</strong> {{.Name}} ({{.Email}})</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p>{{.Body}}</p>
`))

type contactTmplData struct {
    Heading string
    Name    string
    Email   string
    Subject string
    Body    string
}

func renderContact(data contactTmplData) string {
    var buf bytes.Buffer
    if err := contactTmpl.Execute(&buf, data); err != nil {
        return data.Body
    }
    return buf.String()
}

// ContactAdminCopy forwards a contact-form submission to the admin
// inbox with reply-to pointing at the submitter.
func ContactAdminCopy(name, fromEmail, subject, message, adminEmail string) *Message {
    return &Message{
        To:      adminEmail,
        ReplyTo: fromEmail,
        Subject: subject,
        HTMLContent: renderContact(contactTmplData{
            Heading: "Contact Form Message",
            Name:    name, Email: fromEmail, Subject: subject, Body: message,
        }),
    }
}

// ContactReceipt confirms to the submitter that the message arrived.
func ContactReceipt(name, toEmail, subject string) *Message {
    return &Message{
        To:      toEmail,
        ToName:  name,
        Subject: "Message Received - Sahas Uyana",
        HTMLContent: renderContact(contactTmplData{
            Heading: "Thank you for reaching out",
            Name:    name, Email: toEmail, Subject: subject,
            Body: "We have received your message and will get back to you soon.",
        }),
    }
}
