package cmd

import (
	"fmt"

	"github.com/oakwood-commons/gridx/internal/schema"
	"github.com/oakwood-commons/gridx/internal/store"
)

func floatPtr(f float64) *float64 { return &f }

// demoEntities returns the built-in sample dataset used by --demo and as
// the fallback when no data source is given.
func demoEntities() []schema.Entity {
	return []schema.Entity{
		{
			ID:           "ent-companies",
			Slug:         "companies",
			SingularName: "Company",
			PluralName:   "Companies",
			Attributes: []schema.Attribute{
				{ID: "attr-name", Slug: "name", Name: "Name", Type: schema.TypeShortText, Required: true, Order: 0},
				{ID: "attr-domain", Slug: "domain", Name: "Domain", Type: schema.TypeURL, Order: 1},
				{ID: "attr-stage", Slug: "stage", Name: "Stage", Type: schema.TypeSelect, Order: 2,
					Config: &schema.AttributeConfig{Options: []schema.SelectOption{
						{Label: "Lead", Value: "lead", Color: "blue"},
						{Label: "Qualified", Value: "qualified", Color: "yellow"},
						{Label: "Customer", Value: "customer", Color: "green"},
						{Label: "Churned", Value: "churned", Color: "red"},
					}}},
				{ID: "attr-employees", Slug: "employees", Name: "Employees", Type: schema.TypeNumber, Order: 3,
					Config: &schema.AttributeConfig{Min: floatPtr(0), Step: floatPtr(1)}},
				{ID: "attr-tags", Slug: "tags", Name: "Tags", Type: schema.TypeMultiSelect, Order: 4,
					Config: &schema.AttributeConfig{Options: []schema.SelectOption{
						{Label: "SaaS", Value: "saas"},
						{Label: "Enterprise", Value: "enterprise"},
						{Label: "Startup", Value: "startup"},
						{Label: "Partner", Value: "partner"},
					}}},
				{ID: "attr-active", Slug: "active", Name: "Active", Type: schema.TypeCheckbox, Order: 5},
				{ID: "attr-founded", Slug: "founded", Name: "Founded", Type: schema.TypeDate, Order: 6},
				{ID: "attr-notes", Slug: "notes", Name: "Notes", Type: schema.TypeLongText, Order: 7},
			},
		},
		{
			ID:           "ent-contacts",
			Slug:         "contacts",
			SingularName: "Contact",
			PluralName:   "Contacts",
			Attributes: []schema.Attribute{
				{ID: "attr-full-name", Slug: "full-name", Name: "Full name", Type: schema.TypeShortText, Required: true, Order: 0},
				{ID: "attr-email", Slug: "email", Name: "Email", Type: schema.TypeShortText, Order: 1},
				{ID: "attr-company", Slug: "company", Name: "Company", Type: schema.TypeRelation, Order: 2,
					Config: &schema.AttributeConfig{TargetEntityID: "ent-companies"}},
				{ID: "attr-deals", Slug: "deals", Name: "Deals", Type: schema.TypeRelationMulti, Order: 3},
			},
		},
	}
}

func demoRecords() map[string][]store.Record {
	companies := []store.Record{
		{ID: "cmp-1", Values: map[string]any{
			"name": "Acme Industries", "domain": "acme.example", "stage": "customer",
			"employees": float64(480), "tags": []string{"enterprise"}, "active": true,
			"founded": "1998-04-12", "notes": "Flagship account. Renewal due in Q4; procurement prefers annual invoicing.",
		}},
		{ID: "cmp-2", Values: map[string]any{
			"name": "Globex", "domain": "globex.example", "stage": "qualified",
			"employees": float64(64), "tags": []string{"saas", "startup"}, "active": true,
			"founded": "2016-09-01",
		}},
		{ID: "cmp-3", Values: map[string]any{
			"name": "Initech", "domain": "initech.example", "stage": "lead",
			"employees": float64(230), "tags": []string{"enterprise"}, "active": false,
			"founded": "1999-02-19", "notes": "Went quiet after the pilot.",
		}},
		{ID: "cmp-4", Values: map[string]any{
			"name": "Umbrella Labs", "stage": "churned",
			"employees": float64(12), "active": false, "founded": "2020-07-30",
		}},
		{ID: "cmp-5", Values: map[string]any{
			"name": "Vehement Capital", "domain": "vehement.example", "stage": "customer",
			"employees": float64(35), "tags": []string{"partner"}, "active": true,
			"founded": "2011-01-15",
		}},
	}
	contacts := []store.Record{
		{ID: "cnt-1", Values: map[string]any{
			"full-name": "Dana Duke", "email": "dana@acme.example", "company": "cmp-1",
		}},
		{ID: "cnt-2", Values: map[string]any{
			"full-name": "Miles Ito", "email": "miles@globex.example", "company": "cmp-2",
		}},
		{ID: "cnt-3", Values: map[string]any{
			"full-name": "Priya Raman", "email": "priya@initech.example", "company": "cmp-3",
		}},
	}
	return map[string][]store.Record{
		"companies": companies,
		"contacts":  contacts,
	}
}

// buildDemoStore assembles the in-memory demo dataset.
func buildDemoStore() (*store.MemStore, []schema.Entity, error) {
	mem := store.NewMemStore()
	entities := demoEntities()
	records := demoRecords()
	for _, entity := range entities {
		if err := mem.AddEntity(entity, records[entity.Slug]); err != nil {
			return nil, nil, fmt.Errorf("demo dataset: %w", err)
		}
	}
	return mem, entities, nil
}
