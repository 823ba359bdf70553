package model

import (
	"encoding/json"
	"testing"
)

func TestItemJSONNullFields(t *testing.T) {
	item := Item{ID: "0d9c6f1e-6a4b-4c1e-9b7e-3f1f2a8d5c11", Name: "Croissant", Price: 2.5}

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	want := `{"id":"0d9c6f1e-6a4b-4c1e-9b7e-3f1f2a8d5c11","name":"Croissant","price":2.5,"description":null,"image_path":null}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}
