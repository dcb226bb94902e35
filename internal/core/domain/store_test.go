package domain

import (
	"errors"
	"testing"
)

func TestStoreDirectory(t *testing.T) {
	t.Parallel()

	t.Run("Should keep order and default names", func(t *testing.T) {
		t.Parallel()
		d, err := NewStoreDirectory([]Store{{Key: " b "}, {Key: "a", Name: "Tienda A"}})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		all := d.All()
		if len(all) != 2 || all[0].Key != "b" || all[0].Name != "b" || all[1].Name != "Tienda A" {
			t.Errorf("Unexpected stores %v", all)
		}

		all[0].Name = "mutated"
		if s, _ := d.Lookup("b"); s.Name != "b" {
			t.Error("All must return a copy")
		}

		if _, err := d.Lookup(" a "); err != nil {
			t.Errorf("Expected trimmed lookup to succeed, got %v", err)
		}
		if _, err := d.Lookup("c"); !errors.Is(err, ErrUnknownStore) {
			t.Errorf("Expected ErrUnknownStore, got %v", err)
		}
	})

	t.Run("Should reject bad keys", func(t *testing.T) {
		t.Parallel()
		cases := [][]Store{
			{{Key: ""}},
			{{Key: "a/b"}},
			{{Key: "a"}, {Key: "a"}},
		}
		for _, c := range cases {
			if _, err := NewStoreDirectory(c); err == nil {
				t.Errorf("Expected error for %v", c)
			}
		}
	})

	t.Run("Default stores are valid", func(t *testing.T) {
		t.Parallel()
		if _, err := NewStoreDirectory(DefaultStores()); err != nil {
			t.Errorf("Expected defaults to be valid, got %v", err)
		}
	})
}

func TestSession(t *testing.T) {
	t.Parallel()

	s := Session{}
	if s.UserID() != "" {
		t.Error("Expected empty user id without a user")
	}
	if s.IsHistorical("2026-03-10") {
		t.Error("Empty view date means today")
	}

	s.ViewDate = " 2026-03-10 "
	if s.IsHistorical("2026-03-10") {
		t.Error("Viewing today is not historical")
	}

	s.ViewDate = "2026-03-09"
	if !s.IsHistorical("2026-03-10") {
		t.Error("Viewing yesterday is historical")
	}

	o := Refuse(ReasonHistoricalSave)
	if !o.Refused || o.Reason != ReasonHistoricalSave {
		t.Errorf("Unexpected outcome %+v", o)
	}
}
