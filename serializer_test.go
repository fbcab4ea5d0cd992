package contentstack

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestSerializerDatesAreUTCRoundTrippable(t *testing.T) {
	serializer := newSerializer(nil)

	type entry struct {
		PublishedAt time.Time `json:"published_at"`
	}

	loc := time.FixedZone("IST", 5*3600+1800)
	in := entry{PublishedAt: time.Date(2024, 3, 1, 18, 30, 0, 500000000, loc)}

	data, err := serializer.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() returned error: %v", err)
	}
	if !strings.Contains(string(data), `"2024-03-01T13:00:00.5Z"`) {
		t.Errorf("Expected UTC RFC 3339 date in output, got %s", data)
	}

	var out entry
	if err := serializer.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() returned error: %v", err)
	}
	if !out.PublishedAt.Equal(in.PublishedAt) {
		t.Errorf("Round trip changed the instant: %v != %v", out.PublishedAt, in.PublishedAt)
	}
	if out.PublishedAt.Location() != time.UTC {
		t.Errorf("Expected UTC location after round trip, got %v", out.PublishedAt.Location())
	}
}

func TestSerializerDoesNotAutoParseDates(t *testing.T) {
	serializer := newSerializer(nil)

	var out map[string]any
	if err := serializer.Unmarshal([]byte(`{"created_at":"2024-03-01T13:00:00Z"}`), &out); err != nil {
		t.Fatalf("Unmarshal() returned error: %v", err)
	}

	if _, ok := out["created_at"].(string); !ok {
		t.Errorf("Expected date to stay a string in untyped output, got %T", out["created_at"])
	}
}

func TestSerializerOmitsNullFields(t *testing.T) {
	serializer := newSerializer(nil)

	type stack struct {
		Name        string  `json:"name"`
		Description *string `json:"description,omitempty"`
	}

	data, err := serializer.Marshal(stack{Name: "my stack"})
	if err != nil {
		t.Fatalf("Marshal() returned error: %v", err)
	}
	if strings.Contains(string(data), "description") {
		t.Errorf("Expected null field to be absent, got %s", data)
	}

	desc := "about"
	data, err = serializer.Marshal(stack{Name: "my stack", Description: &desc})
	if err != nil {
		t.Fatalf("Marshal() returned error: %v", err)
	}
	if !strings.Contains(string(data), `"description":"about"`) {
		t.Errorf("Expected set field to be present, got %s", data)
	}
}

// currency exercises the converter registration path.
type currency struct {
	Cents int64
}

type currencyConverter struct{}

func (currencyConverter) Type() reflect.Type { return reflect.TypeOf(currency{}) }

func (currencyConverter) Marshal(v any) ([]byte, error) {
	c, ok := v.(currency)
	if !ok {
		return nil, fmt.Errorf("unexpected type %T", v)
	}
	return []byte(fmt.Sprintf(`"%d.%02d"`, c.Cents/100, c.Cents%100)), nil
}

func (currencyConverter) Unmarshal(data []byte, v any) error {
	out, ok := v.(*currency)
	if !ok {
		return fmt.Errorf("unexpected type %T", v)
	}
	var major, minor int64
	if _, err := fmt.Sscanf(string(data), `"%d.%d"`, &major, &minor); err != nil {
		return err
	}
	out.Cents = major*100 + minor
	return nil
}

func TestSerializerCustomConverter(t *testing.T) {
	serializer := newSerializer([]Converter{currencyConverter{}})

	type price struct {
		Amount currency `json:"amount"`
	}

	data, err := serializer.Marshal(price{Amount: currency{Cents: 1999}})
	if err != nil {
		t.Fatalf("Marshal() returned error: %v", err)
	}
	if string(data) != `{"amount":"19.99"}` {
		t.Errorf("Expected converter output, got %s", data)
	}

	var out price
	if err := serializer.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() returned error: %v", err)
	}
	if out.Amount.Cents != 1999 {
		t.Errorf("Expected 1999 cents after round trip, got %d", out.Amount.Cents)
	}
}
