package utils

import "testing"

type patchDTO struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Ignored *string `json:"-"`
}

func strPtr(s string) *string { return &s }

func TestUpdatesFromPtrDTO(t *testing.T) {
	dto := patchDTO{
		Name:    strPtr("Acme"),
		Ignored: strPtr("x"),
	}
	updates := UpdatesFromPtrDTO(&dto, nil)
	if len(updates) != 1 {
		t.Fatalf("expected 1 update, got %v", updates)
	}
	if updates["name"] != "Acme" {
		t.Fatalf("expected name=Acme, got %v", updates["name"])
	}
}

func TestUpdatesFromPtrDTORenames(t *testing.T) {
	dto := patchDTO{Name: strPtr("Acme")}
	updates := UpdatesFromPtrDTO(&dto, map[string]string{"name": "company_name"})
	if updates["company_name"] != "Acme" {
		t.Fatalf("rename not applied: %v", updates)
	}
}

func TestNormalizePtrDTO(t *testing.T) {
	dto := patchDTO{Name: strPtr("  Acme  ")}
	NormalizePtrDTO(&dto)
	if *dto.Name != "Acme" {
		t.Fatalf("expected trimmed string, got %q", *dto.Name)
	}
	if dto.Phone != nil {
		t.Fatalf("nil fields must stay nil")
	}
}
