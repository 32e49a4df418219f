// Package prefill maps a job snapshot, its resolved rates and the party identities into the
// document-type specific data a template binds against.
package prefill

import (
	"maps"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/tradepack/internal/apperr"
	"github.com/MrJamesThe3rd/tradepack/internal/business"
	"github.com/MrJamesThe3rd/tradepack/internal/job"
	"github.com/MrJamesThe3rd/tradepack/internal/rates"
	"github.com/MrJamesThe3rd/tradepack/internal/templates"
)

var ErrUnsupportedDocType = apperr.Validation("no prefill mapping for document type")

// Input is everything a mapper reads. Narrative is generated prose and may be empty.
type Input struct {
	Job       *job.Job
	Rates     rates.Rates
	Company   business.Identity
	Client    job.Client
	IssueDate time.Time
	Narrative string
}

type mapper func(in Input, data map[string]any)

var mappers = map[templates.DocType]mapper{
	templates.DocSWMS:                 mapSWMS,
	templates.DocToolboxTalk:          mapToolboxTalk,
	templates.DocPaymentClaim:         mapPaymentClaim,
	templates.DocProgressClaimInvoice: mapProgressClaim,
	templates.DocVariation:            mapVariation,
	templates.DocExtensionOfTime:      mapExtensionOfTime,
	templates.DocHandover:             mapHandover,
	templates.DocMaintenanceGuide:     mapMaintenanceGuide,
}

// Map builds prefill data for docType. Values that are unknown are left out rather than zeroed.
func Map(docType templates.DocType, in Input) (map[string]any, error) {
	m, ok := mappers[docType]
	if !ok {
		return nil, ErrUnsupportedDocType
	}

	if in.Job == nil {
		return nil, apperr.Validation("prefill needs a job")
	}

	data := base(in)
	m(in, data)

	return data, nil
}

// Facts lists the job facts a document type reads, for the generation prompt.
func Facts(docType templates.DocType, in Input) map[string]any {
	data, err := Map(docType, in)
	if err != nil {
		return nil
	}

	delete(data, "narrative")
	delete(data, "company")

	return data
}

func base(in Input) map[string]any {
	data := map[string]any{
		"company": map[string]any{
			"legal_name": in.Company.LegalName,
			"abn":        in.Company.ABN,
			"address":    in.Company.Address,
			"email":      in.Company.Email,
			"phone":      in.Company.Phone,
		},
		"client": map[string]any{
			"name":            in.Client.Name,
			"email":           in.Client.Email,
			"phone":           in.Client.Phone,
			"billing_address": in.Client.BillingAddress,
		},
		"narrative": in.Narrative,
	}

	if !in.IssueDate.IsZero() {
		data["issue_date"] = in.IssueDate
	}

	data["job_title"] = in.Job.Title
	data["site_address"] = in.Job.SiteAddress
	data["trade"] = in.Job.Trade

	return data
}

func mapSWMS(in Input, data map[string]any) {
	j := in.Job
	data["scope_of_work"] = j.ScopeOfWork
	data["hazards"] = slices.Clone(j.Hazards)
	data["ppe"] = slices.Clone(j.PPE)
	copyFacts(j, data, "controls", "supervisor", "emergency_contact")
}

func mapToolboxTalk(in Input, data map[string]any) {
	j := in.Job
	data["hazards"] = slices.Clone(j.Hazards)
	data["ppe"] = slices.Clone(j.PPE)
	copyFacts(j, data, "topic", "presenter", "attendees")
}

func mapPaymentClaim(in Input, data map[string]any) {
	j := in.Job
	data["scope_of_work"] = j.ScopeOfWork
	totals(j, data)
	copyFacts(j, data, "contract_reference", "claim_period", "claim_amount", "due_date")
	data["act_statement"] = "This is a payment claim made under the Building and Construction Industry Security of Payment Act 1999 (NSW)."
}

func mapProgressClaim(in Input, data map[string]any) {
	j := in.Job
	totals(j, data)
	pricing(in.Rates, data)

	if !j.EstimatedHours.IsZero() {
		data["estimated_hours"] = j.EstimatedHours
	}

	copyFacts(j, data, "invoice_number", "percent_complete", "claim_amount", "previous_claims")
}

func mapVariation(in Input, data map[string]any) {
	j := in.Job
	data["scope_of_work"] = j.ScopeOfWork
	pricing(in.Rates, data)
	copyFacts(j, data, "variation_number", "variation_reason", "variation_items", "variation_amount")
}

func mapExtensionOfTime(in Input, data map[string]any) {
	copyFacts(in.Job, data, "delay_cause", "delay_days", "original_completion", "revised_completion")
}

func mapHandover(in Input, data map[string]any) {
	j := in.Job
	data["scope_of_work"] = j.ScopeOfWork
	data["inclusions"] = slices.Clone(j.Inclusions)
	data["exclusions"] = slices.Clone(j.Exclusions)
	copyFacts(j, data, "certificates", "warranties", "defects")
}

func mapMaintenanceGuide(in Input, data map[string]any) {
	j := in.Job
	data["materials"] = j.MaterialsText
	copyFacts(j, data, "maintenance_schedule", "warranties")
}

func totals(j *job.Job, data map[string]any) {
	data["subtotal"] = j.Subtotal
	data["tax"] = j.Tax
	data["total"] = j.Total
}

// pricing flattens resolved rates. Rates no layer set stay absent.
func pricing(r rates.Rates, data map[string]any) {
	maps.Copy(data, toAny(r.Values()))
}

func toAny[V any](m map[string]V) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}

func copyFacts(j *job.Job, data map[string]any, keys ...string) {
	for _, k := range keys {
		if v, ok := j.Facts[k]; ok && v != nil {
			data[k] = v
		}
	}
}
