package xref

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

// KeyType names a family of linkable identifiers.
type KeyType string

const (
	KeyInvoiceRef KeyType = "invoice_ref"
	KeyAssignment KeyType = "assignment"
	KeyAccount    KeyType = "account"
	KeyCustomer   KeyType = "customer"
	KeyESN        KeyType = "esn"
	KeyProgramme  KeyType = "programme"
	KeyProject    KeyType = "project"
)

// Key is one linkable identifier found in a file, with where it came from.
type Key struct {
	Type       KeyType
	Value      string
	Occurrence models.Occurrence
}

// meaningless values are never linked.
var meaningless = map[string]bool{"none": true, "nan": true, "unknown": true}

// collector accumulates the keys of one file.
type collector struct {
	file     string
	fileType models.FileType
	keys     []Key
}

// add records value under kt. The occurrence's file fields are filled in.
func (c *collector) add(kt KeyType, value *string, occ models.Occurrence) {
	if value == nil {
		return
	}
	v := strings.TrimSpace(*value)
	if v == "" || meaningless[strings.ToLower(v)] {
		return
	}
	occ.File = c.file
	occ.FileType = c.fileType
	c.keys = append(c.keys, Key{Type: kt, Value: v, Occurrence: occ})
}

func (c *collector) addString(kt KeyType, value string, occ models.Occurrence) {
	c.add(kt, &value, occ)
}

// Keys returns every linkable identifier of one parsed file.
func (b *Builder) Keys(file string, res *models.ParseResult) []Key {
	c := &collector{file: file, fileType: res.FileType}
	switch {
	case res.Statement != nil:
		b.statementKeys(c, res)
	case res.Invoices != nil:
		b.invoiceKeys(c, res.Invoices)
	case res.ShopVisits != nil:
		shopVisitKeys(c, res.ShopVisits)
	case res.Guarantee != nil:
		guaranteeKeys(c, res)
	case res.Opportunities != nil:
		opportunityKeys(c, res.Opportunities)
	}
	return c.keys
}

func (b *Builder) statementKeys(c *collector, res *models.ParseResult) {
	if name, ok := res.Metadata["customer_name"].(string); ok {
		c.addString(KeyCustomer, name, models.Occurrence{})
	}
	for _, sec := range res.Statement.Sections {
		for _, it := range sec.Items {
			c.add(KeyInvoiceRef, it.Reference, models.Occurrence{
				Section:  sec.Name,
				Amount:   it.Amount,
				Date:     it.DueDate,
				DaysLate: it.DaysLate,
				Status:   deref(it.Status),
				Text:     deref(it.Text),
			})
			c.add(KeyAssignment, it.Assignment, models.Occurrence{Section: sec.Name, Amount: it.Amount})
			c.add(KeyAccount, it.Account, models.Occurrence{Section: sec.Name})
			b.textKeys(c, deref(it.Text), models.Occurrence{Section: sec.Name, Amount: it.Amount, Reference: deref(it.Reference)})
			b.textKeys(c, deref(it.RRComments), models.Occurrence{Section: sec.Name, Reference: deref(it.Reference)})
		}
	}
}

func (b *Builder) invoiceKeys(c *collector, data *models.InvoiceData) {
	for _, it := range data.Items {
		c.add(KeyInvoiceRef, it.Reference, models.Occurrence{
			Amount:   it.Amount,
			Date:     it.DueDate,
			DaysLate: it.DaysLate,
			Text:     deref(it.Text),
		})
		c.add(KeyAssignment, it.Assignment, models.Occurrence{Amount: it.Amount})
		b.textKeys(c, deref(it.Text), models.Occurrence{Amount: it.Amount, Reference: deref(it.Reference)})
	}
}

// textKeys runs every free-text extractor over text.
func (b *Builder) textKeys(c *collector, text string, occ models.Occurrence) {
	for _, x := range b.extractors {
		for _, v := range x.FindKeys(text) {
			c.addString(x.KeyType(), v, occ)
		}
	}
}

func shopVisitKeys(c *collector, data *models.ShopVisitData) {
	for _, group := range [][]models.ShopVisitEvent{data.ShopVisits, data.MaintenanceActions, data.CurrentStatus} {
		for _, ev := range group {
			c.addString(KeyESN, ev.SerialNumber, models.Occurrence{
				Date: ev.EventDate,
				Details: details(
					"operator", ev.Operator,
					"sv_type", ev.ShopVisitType,
					"sv_location", ev.Location,
				),
			})
		}
	}
}

func guaranteeKeys(c *collector, res *models.ParseResult) {
	if name, ok := res.Metadata["customer"].(string); ok {
		c.addString(KeyCustomer, name, models.Occurrence{})
	}
	for _, ev := range res.Guarantee.EventEntries.Events {
		c.add(KeyESN, ev.EngineSerial, models.Occurrence{
			Date:    ev.Date,
			Text:    deref(ev.Description),
			Details: details("qualification", ev.Qualification),
		})
	}
}

func opportunityKeys(c *collector, data *models.OpportunityData) {
	sheets := make([]string, 0, len(data.Opportunities))
	for name := range data.Opportunities {
		sheets = append(sheets, name)
	}
	sort.Strings(sheets)
	for _, sheet := range sheets {
		for _, o := range data.Opportunities[sheet] {
			c.add(KeyCustomer, o.Customer, models.Occurrence{
				Section: sheet,
				Status:  deref(o.Status),
				Details: details("project", o.Project, "programme", o.Programme),
			})
			c.add(KeyProgramme, o.Programme, models.Occurrence{
				Section: sheet,
				Details: details("project", o.Project, "customer", o.Customer),
			})
			c.add(KeyProject, o.Project, models.Occurrence{
				Section: sheet,
				Status:  deref(o.Status),
				Amount:  o.TermBenefit,
				Details: details("customer", o.Customer, "programme", o.Programme),
			})
		}
	}
	if ot := data.OppsAndThreats; ot != nil {
		for _, it := range ot.Items {
			c.add(KeyCustomer, it.Customer, models.Occurrence{
				Section: "Opps and Threats",
				Details: details("project", it.Project, "programme", it.Programme, "opportunity", it.Opportunity, "owner", it.Owner),
			})
			c.add(KeyProject, it.Project, models.Occurrence{
				Section: "Opps and Threats",
				Details: details("customer", it.Customer, "programme", it.Programme),
			})
		}
	}
	if ps := data.ProjectSummary; ps != nil {
		for _, p := range ps.Projects {
			c.add(KeyCustomer, p.Customer, models.Occurrence{
				Section: "Summary",
				Amount:  p.CurrentCRPMargin,
				Details: details("project", p.Project, "programme", p.Programme),
			})
			c.add(KeyProject, p.Project, models.Occurrence{
				Section: "Summary",
				Details: details("customer", p.Customer, "programme", p.Programme),
			})
		}
	}
	for _, m := range data.Timeline.Milestones {
		c.add(KeyProject, m.Project, models.Occurrence{
			Section: m.Source,
			Details: details("customer", m.Customer, "current_phase", m.CurrentPhase),
		})
	}
}

// details builds an occurrence detail map from name/value pairs, leaving out
// nil values. It returns nil when nothing is set.
func details(pairs ...any) map[string]string {
	var out map[string]string
	for i := 0; i+1 < len(pairs); i += 2 {
		v, ok := pairs[i+1].(*string)
		if !ok || v == nil {
			continue
		}
		if out == nil {
			out = map[string]string{}
		}
		out[fmt.Sprint(pairs[i])] = *v
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
