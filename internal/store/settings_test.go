package store

import (
	"errors"
	"testing"
)

func TestSettingsRepository_GetSet(t *testing.T) {
	repo := newTestStore(t).Settings()

	if _, err := repo.Get("smoothing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty store error = %v, want ErrNotFound", err)
	}

	if err := repo.Set("smoothing", "4"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := repo.Set("smoothing", "5"); err != nil {
		t.Fatalf("second Set() error = %v", err)
	}

	got, err := repo.Get("smoothing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "5" {
		t.Errorf("Get() = %q, want %q", got, "5")
	}
}

func TestSettingsRepository_SetAllAndAll(t *testing.T) {
	repo := newTestStore(t).Settings()

	in := map[string]string{
		"deadzone":    "0.01",
		"pinch_ratio": "0.04",
		"scroll_step": "10",
	}
	if err := repo.SetAll(in); err != nil {
		t.Fatalf("SetAll() error = %v", err)
	}

	all, err := repo.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != len(in) {
		t.Fatalf("All() returned %d settings, want %d", len(all), len(in))
	}
	for k, v := range in {
		if all[k] != v {
			t.Errorf("All()[%q] = %q, want %q", k, all[k], v)
		}
	}
}

func TestSettingsRepository_AllEmpty(t *testing.T) {
	all, err := newTestStore(t).Settings().All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("All() = %v, want empty", all)
	}
}

func TestSettingsRepository_Delete(t *testing.T) {
	repo := newTestStore(t).Settings()

	if err := repo.Delete("deadzone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() missing key error = %v, want ErrNotFound", err)
	}

	repo.Set("deadzone", "0.05")
	if err := repo.Delete("deadzone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get("deadzone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
}
