package billing

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"harvesterbilling/models"
)

const (
	DefaultCountryCode = "+91"
	DefaultCurrency    = "INR"

	fallbackMachineLabel = "Harvester"
	messageRule          = "--------------------------"
)

// Payee identifies who receives a UPI payment.
type Payee struct {
	UPIID    string
	Name     string
	Currency string
}

// PayeeFor reads the payee from account settings, using defaults for blank fields.
func PayeeFor(settings models.AppSettings, defaults Payee) Payee {
	p := Payee{UPIID: settings.UPIID, Name: settings.CompanyName, Currency: defaults.Currency}
	if p.UPIID == "" {
		p.UPIID = defaults.UPIID
	}
	if p.Name == "" {
		p.Name = defaults.Name
	}
	return p
}

// EncodeComponent escapes s like JavaScript's encodeURIComponent.
func EncodeComponent(s string) string {
	r := strings.NewReplacer("+", "%20", "%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*")
	return r.Replace(url.QueryEscape(s))
}

// PaymentURI builds a upi://pay link. The payee address is not escaped.
func PaymentURI(p Payee, amount float64, note string) string {
	currency := p.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	return "upi://pay?pa=" + p.UPIID +
		"&pn=" + EncodeComponent(p.Name) +
		"&am=" + FormatAmount2(amount) +
		"&cu=" + currency +
		"&tn=" + EncodeComponent(note)
}

// InvoicePaymentURI is the link printed on invoices and QR codes: the outstanding
// due, or zero when the bill is settled or in credit.
func InvoicePaymentURI(p Payee, bill models.Bill) string {
	amount := 0.0
	if bill.DueAmount > 0 {
		amount = bill.DueAmount
	}
	id := bill.ID
	if id == "" {
		id = "New"
	}
	return PaymentURI(p, amount, "Invoice "+id)
}

// DraftRef is the reference quoted for a bill that has not been saved yet.
func DraftRef(now time.Time) string {
	millis := strconv.FormatInt(now.UnixMilli(), 10)
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	return "INV-" + millis
}

// MachineList renders the distinct machines used by the sessions in first-seen order.
func MachineList(sessions []models.WorkingSession, c Catalog) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range sessions {
		label := fallbackMachineLabel
		if v, ok := c.Vehicle(s.MachineID); ok {
			label = fmt.Sprintf("%s [%s]", v.Name, v.Type)
		}
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}

// ShareInput carries everything a bill summary message needs.
type ShareInput struct {
	Bill    models.Bill
	Catalog Catalog
	Payee   Payee
	// Ref is the bill id, or a DraftRef for unsaved bills.
	Ref string
}

// ShareMessage renders the bill summary sent to the customer. The full form is
// meant for WhatsApp; compact abbreviates every field for SMS. Both end with the
// payment link for the due amount, or the bill total when nothing is due.
func ShareMessage(in ShareInput, compact bool) string {
	b := in.Bill
	payable := b.TotalAmount
	if b.DueAmount > 0 {
		payable = b.DueAmount
	}
	uri := PaymentURI(in.Payee, payable, "Bill "+in.Ref)

	machines := fallbackMachineLabel
	if list := MachineList(b.Sessions, in.Catalog); len(list) > 0 {
		machines = strings.Join(list, ", ")
	}
	duration := FormatDuration(TotalHours(b.Sessions))
	company := strings.ToUpper(in.Payee.Name)

	var sb strings.Builder
	if compact {
		fmt.Fprintf(&sb, "%s\n", company)
		fmt.Fprintf(&sb, "Mob: %s\n", orDefault(b.Customer.Mobile, "-"))
		fmt.Fprintf(&sb, "Mach: %s\n", machines)
		fmt.Fprintf(&sb, "Work: %s\n", duration)
		fmt.Fprintf(&sb, "Amt: ₹%s\n", FormatRupees(b.TotalAmount))
		fmt.Fprintf(&sb, "Pd(%s): ₹%s\n", b.PaymentType, FormatRupees(b.PaidAmount))
		fmt.Fprintf(&sb, "Bal: ₹%s\n", FormatRupees(b.DueAmount))
		sb.WriteString(uri)
		return sb.String()
	}

	fmt.Fprintf(&sb, "*%s - BILL SUMMARY*\n\n", company)
	fmt.Fprintf(&sb, "*Customer:* %s\n", orDefault(b.Customer.Name, "Client"))
	fmt.Fprintf(&sb, "*Village:* %s\n", orDefault(b.Customer.Village, "-"))
	fmt.Fprintf(&sb, "*Machine:* %s\n", machines)
	fmt.Fprintf(&sb, "*Duration:* %s\n\n", duration)
	sb.WriteString(messageRule + "\n")
	fmt.Fprintf(&sb, "*Total Amount:* Rs %s\n", FormatRupees(b.TotalAmount))
	fmt.Fprintf(&sb, "*Paid Amount (%s):* Rs %s\n", b.PaymentType, FormatRupees(b.PaidAmount))
	fmt.Fprintf(&sb, "*BALANCE DUE:* Rs %s\n", FormatRupees(b.DueAmount))
	sb.WriteString(messageRule + "\n\n")
	fmt.Fprintf(&sb, "*DIRECT PAYMENT LINK:*\n%s", uri)
	return sb.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// FormatMobile prefixes countryCode unless the number already carries a "+" prefix.
func FormatMobile(mobile, countryCode string) string {
	if strings.HasPrefix(mobile, "+") {
		return mobile
	}
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	return countryCode + mobile
}

func WhatsAppLink(mobile, countryCode, text string) string {
	return "https://wa.me/" + FormatMobile(mobile, countryCode) + "?text=" + EncodeComponent(text)
}

// SMSLink builds an sms: URI. iOS expects "&body=" instead of "?body=".
func SMSLink(mobile, text string, ios bool) string {
	sep := "?"
	if ios {
		sep = "&"
	}
	return "sms:" + mobile + sep + "body=" + EncodeComponent(text)
}
