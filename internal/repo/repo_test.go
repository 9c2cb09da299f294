package repo

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shaiso/xws/internal/domain"
)

func TestMarshalLists(t *testing.T) {
	run := &domain.Run{
		Failures: []string{"field criteria (criteria.xml): missing"},
		Outputs:  []string{"messages.xml"},
	}

	failures, outputs, err := marshalLists(run)
	if err != nil {
		t.Fatalf("marshalLists: %v", err)
	}

	var gotFailures, gotOutputs []string
	if err := unmarshalList(failures, &gotFailures); err != nil {
		t.Fatal(err)
	}
	if err := unmarshalList(outputs, &gotOutputs); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(run.Failures, gotFailures); diff != "" {
		t.Errorf("failures mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(run.Outputs, gotOutputs); diff != "" {
		t.Errorf("outputs mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalList_Null(t *testing.T) {
	var got []string
	if err := unmarshalList(nil, &got); err != nil || got != nil {
		t.Errorf("expected nil, got %v, %v", got, err)
	}
}

func TestNullString(t *testing.T) {
	if nullString("") != nil {
		t.Error("empty string should be NULL")
	}
	if s := nullString("x"); s == nil || *s != "x" {
		t.Error("non-empty string should be kept")
	}
}
