package analytics

import (
	"testing"

	"callcenter-dashboard/internal/calls"
	"callcenter-dashboard/internal/projects"
	"callcenter-dashboard/internal/suppliers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func number(supplierID, phone string) suppliers.Number {
	return suppliers.Number{ProjectID: "p1", SupplierID: supplierID, PhoneNormalized: phone}
}

func TestAttributeSuppliers_Scenario(t *testing.T) {
	sups := []suppliers.Supplier{{ID: "s1", Name: "Base"}}
	numbers := []suppliers.Number{number("s1", "1"), number("s1", "2"), number("s1", "3")}
	in := []calls.Call{
		call("1", "answered", false, 40, "2024-03-01"),
		call("2", "busy", false, 0, "2024-03-01"),
		call("9", "answered", true, 40, "2024-03-01"),
	}

	got := AttributeSuppliers(projects.Project{ID: "p1"}, sups, numbers, in, DateFilter{})
	require.Len(t, got.Suppliers, 1)
	row := got.Suppliers[0]
	assert.Equal(t, 3, row.Received)
	assert.Equal(t, 2, row.Called)
	assert.Equal(t, 1, row.Answered)
	assert.Equal(t, 0, row.Leads)
	assert.Equal(t, 66.7, row.CallRate)
	assert.Equal(t, 50.0, row.AnswerRate)
	assert.Equal(t, 0.0, row.ConversionRate)
	assert.Nil(t, got.GCK)
}

func TestAttributeSuppliers_LastNumberWinsAndReceivedIgnoresDates(t *testing.T) {
	sups := []suppliers.Supplier{{ID: "s1"}, {ID: "s2"}}
	numbers := []suppliers.Number{number("s1", "1"), number("s2", "1")}
	in := []calls.Call{
		call("1", "answered", true, 30, "2024-03-05"),
		call("1", "answered", true, 30, "2024-01-01"),
	}

	got := AttributeSuppliers(projects.Project{ID: "p1"}, sups, numbers, in, DateFilter{From: "2024-03-01"})
	assert.Equal(t, 1, got.Suppliers[0].Received)
	assert.Equal(t, 0, got.Suppliers[0].Called)
	assert.Equal(t, 1, got.Suppliers[1].Received)
	assert.Equal(t, 1, got.Suppliers[1].Called)
	assert.Equal(t, 1, got.Suppliers[1].Leads)
	assert.Equal(t, 100.0, got.Suppliers[1].ConversionRate)
}

func TestAttributeSuppliers_GCKAggregate(t *testing.T) {
	sups := []suppliers.Supplier{
		{ID: "s1"},
		{ID: "g1", IsGck: true},
		{ID: "g2", IsGck: true},
	}
	numbers := []suppliers.Number{
		number("s1", "1"),
		number("g1", "2"),
		number("g1", "3"),
		number("g2", "4"),
	}
	in := []calls.Call{
		call("1", "answered", false, 10, "2024-03-01"),
		call("2", "answered", true, 10, "2024-03-01"),
		call("4", "busy", false, 0, "2024-03-01"),
	}

	got := AttributeSuppliers(projects.Project{ID: "p1", HasGck: true}, sups, numbers, in, DateFilter{})
	require.NotNil(t, got.GCK)
	assert.Equal(t, GCKSupplierID, got.GCK.SupplierID)
	assert.Equal(t, 3, got.GCK.Received)
	assert.Equal(t, 2, got.GCK.Called)
	assert.Equal(t, 1, got.GCK.Answered)
	assert.Equal(t, 1, got.GCK.Leads)

	withoutFlag := AttributeSuppliers(projects.Project{ID: "p1", HasGck: false}, sups, numbers, in, DateFilter{})
	assert.Nil(t, withoutFlag.GCK)

	noPool := AttributeSuppliers(projects.Project{ID: "p1", HasGck: true}, sups[:1], numbers, in, DateFilter{})
	assert.Nil(t, noPool.GCK)
}
