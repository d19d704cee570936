package analytics

import (
	"callcenter-dashboard/internal/calls"
	"callcenter-dashboard/internal/projects"
	"callcenter-dashboard/internal/suppliers"
)

// GCKSupplierID is the id of the pseudo-supplier aggregating every GCK supplier.
const GCKSupplierID = "gck"

// SupplierFunnel is the received -> called -> answered -> leads funnel of one supplier.
type SupplierFunnel struct {
	SupplierID string `json:"supplier_id"`
	Name       string `json:"name"`
	Tag        string `json:"tag,omitempty"`
	IsGck      bool   `json:"is_gck"`

	Received int `json:"received"`
	Called   int `json:"called"`
	Answered int `json:"answered"`
	Leads    int `json:"leads"`

	CallRate       float64 `json:"call_rate"`
	AnswerRate     float64 `json:"answer_rate"`
	ConversionRate float64 `json:"conversion_rate"`
}

// Attribution holds per-supplier funnels in supplier input order.
// GCK is nil when the project has no GCK pool.
type Attribution struct {
	Suppliers []SupplierFunnel `json:"suppliers"`
	GCK       *SupplierFunnel  `json:"gck,omitempty"`
}

// PhoneOwners maps each normalized phone to the supplier that delivered it.
//
// A phone delivered by two suppliers of the same project belongs to the one
// that appears last in numbers. Callers pass numbers in insertion (id) order
// so the winner is deterministic.
func PhoneOwners(numbers []suppliers.Number) map[string]string {
	out := make(map[string]string, len(numbers))
	for _, n := range numbers {
		out[n.PhoneNormalized] = n.SupplierID
	}
	return out
}

// AttributeSuppliers joins supplier numbers against calls by phone.
//
// numbers are never date filtered: when a base was received is unrelated to
// when it was called. Only calls go through filter. Calls whose phone no
// supplier delivered are left out silently.
func AttributeSuppliers(project projects.Project, sups []suppliers.Supplier, numbers []suppliers.Number, in []calls.Call, filter DateFilter) Attribution {
	owners := PhoneOwners(numbers)

	received := make(map[string]phoneSet, len(sups))
	sets := make(map[string]*funnelSets, len(sups))
	gckIDs := make(map[string]struct{})
	for _, s := range sups {
		received[s.ID] = phoneSet{}
		sets[s.ID] = newFunnelSets()
		if s.IsGck {
			gckIDs[s.ID] = struct{}{}
		}
	}

	gckReceived := phoneSet{}
	for _, n := range numbers {
		r, ok := received[n.SupplierID]
		if !ok {
			continue
		}
		r.add(n.PhoneNormalized)
		if _, ok := gckIDs[n.SupplierID]; ok {
			gckReceived.add(n.PhoneNormalized)
		}
	}

	gck := newFunnelSets()
	for _, c := range in {
		if !filter.Match(c) {
			continue
		}
		owner, ok := owners[c.PhoneNormalized]
		if !ok {
			continue
		}
		f, ok := sets[owner]
		if !ok {
			continue
		}
		f.addCall(c)
		if _, ok := gckIDs[owner]; ok {
			gck.addCall(c)
		}
	}

	out := Attribution{Suppliers: make([]SupplierFunnel, 0, len(sups))}
	for _, s := range sups {
		row := supplierFunnel(received[s.ID], sets[s.ID])
		row.SupplierID = s.ID
		row.Name = s.Name
		row.Tag = s.Tag
		row.IsGck = s.IsGck
		out.Suppliers = append(out.Suppliers, row)
	}

	if project.HasGck && len(gckIDs) > 0 {
		row := supplierFunnel(gckReceived, gck)
		row.SupplierID = GCKSupplierID
		row.Name = "GCK"
		row.IsGck = true
		out.GCK = &row
	}
	return out
}

func supplierFunnel(received phoneSet, f *funnelSets) SupplierFunnel {
	row := SupplierFunnel{
		Received: len(received),
		Called:   len(f.called),
		Answered: len(f.answered),
		Leads:    len(f.leads),
	}
	row.CallRate = percent(row.Called, row.Received)
	row.AnswerRate = percent(row.Answered, row.Called)
	row.ConversionRate = percent(row.Leads, row.Answered)
	return row
}
