package registry

import (
	"fmt"
	"testing"
)

type testItem struct {
	ID   string
	Name string
}

func TestRegistry_Register(t *testing.T) {
	reg := New[testItem]()

	tests := []struct {
		name    string
		itemID  string
		wantErr bool
	}{
		{name: "register valid item", itemID: "item-1", wantErr: false},
		{name: "register empty name", itemID: "", wantErr: true},
		{name: "register duplicate", itemID: "item-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Register(tt.itemID, testItem{ID: tt.itemID})
			if (err != nil) != tt.wantErr {
				t.Errorf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegistry_Put_Overwrites(t *testing.T) {
	reg := New[testItem]()

	if err := reg.Put("item-1", testItem{ID: "item-1", Name: "first"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := reg.Put("item-1", testItem{ID: "item-1", Name: "second"}); err != nil {
		t.Fatalf("Put() overwrite error = %v", err)
	}

	item, ok := reg.Get("item-1")
	if !ok {
		t.Fatal("Get() returned not found after Put")
	}
	if item.Name != "second" {
		t.Errorf("Get() name = %q, want %q", item.Name, "second")
	}
	if reg.Count() != 1 {
		t.Errorf("Count() = %d, want 1", reg.Count())
	}
}

func TestRegistry_GetAndRemove(t *testing.T) {
	reg := New[testItem]()

	if err := reg.Register("item-1", testItem{ID: "item-1"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, ok := reg.Get("missing"); ok {
		t.Error("Get() found missing item")
	}

	if err := reg.Remove("missing"); err == nil {
		t.Error("Remove() missing item did not error")
	}
	if err := reg.Remove("item-1"); err != nil {
		t.Errorf("Remove() error = %v", err)
	}
	if _, ok := reg.Get("item-1"); ok {
		t.Error("Get() found removed item")
	}
}

func TestRegistry_Concurrency(t *testing.T) {
	reg := New[testItem]()

	done := make(chan bool, 2)

	go func() {
		defer func() { done <- true }()
		for i := 0; i < 100; i++ {
			_ = reg.Register(fmt.Sprintf("concurrent-%d", i), testItem{})
		}
	}()

	go func() {
		defer func() { done <- true }()
		for i := 0; i < 100; i++ {
			reg.Get(fmt.Sprintf("concurrent-%d", i))
			reg.Count()
			reg.List()
		}
	}()

	<-done
	<-done

	if count := reg.Count(); count != 100 {
		t.Errorf("Count() after concurrent access = %d, want 100", count)
	}
}
