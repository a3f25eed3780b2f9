package gqlerrors_test

import (
	"encoding/json"
	"testing"

	"github.com/kylelemons/godebug/pretty"

	"go.appointy.com/graphwalk/gqlerrors"
	"go.appointy.com/graphwalk/interpreter"
)

func TestWrapArgumentsErrorJSON(t *testing.T) {
	argErr := &interpreter.QueryArgumentsError{
		Kind: []interpreter.ArgumentErrorKind{interpreter.MissingArgument},
		Name: []string{"max"},
	}

	wrapped := gqlerrors.Wrap(argErr)
	body, err := json.Marshal(wrapped)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if diff := pretty.Compare(string(body), `{"message":"argument \"max\": required argument was not supplied","extensions":{"code":"ArgumentsError"},"paths":[]}`); diff != "" {
		t.Errorf("expected response to match, but received %s", diff)
	}
}

func TestWrapUnknownErrorIsInternal(t *testing.T) {
	wrapped := gqlerrors.Wrap(errPlain("boom"))
	body, err := json.Marshal(wrapped)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if diff := pretty.Compare(string(body), `{"message":"boom","extensions":{"code":"Unknown"},"paths":[]}`); diff != "" {
		t.Errorf("expected response to match, but received %s", diff)
	}
}

func TestAggregateSingleErrorUnwrapsDirectly(t *testing.T) {
	wrapped := gqlerrors.Aggregate([]error{errPlain("only one")})
	if wrapped.Kind == gqlerrors.KindMultipleErrors {
		t.Errorf("expected a single error to pass through unwrapped, got KindMultipleErrors")
	}
}

func TestAggregateMultipleErrorsJSON(t *testing.T) {
	wrapped := gqlerrors.Aggregate([]error{errPlain("first"), errPlain("second")})
	body, err := json.Marshal(wrapped)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if diff := pretty.Compare(string(body), `{"message":"2 errors","extensions":{"code":"MultipleErrors"},"paths":[]}`); diff != "" {
		t.Errorf("expected response to match, but received %s", diff)
	}
}

type errPlain string

func (e errPlain) Error() string { return string(e) }
