package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want []string
	}{
		{
			name: "not found with name",
			err:  NotFound("Group.Dimension", "time"),
			want: []string{"not_found", "Group.Dimension", `"time"`},
		},
		{
			name: "invalid name with detail",
			err:  InvalidName("Group.AddDimension", "a/b", "name contains '/'"),
			want: []string{"invalid_name", `"a/b"`, "contains"},
		},
		{
			name: "engine status preserved",
			err:  Engine("engine.Open", -33, nil),
			want: []string{"engine", "status -33"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, frag := range tt.want {
				if !strings.Contains(msg, frag) {
					t.Errorf("message %q missing %q", msg, frag)
				}
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	err := AlreadyExists("Group.AddDimension", "x")
	if KindOf(err) != KindAlreadyExists {
		t.Errorf("KindOf = %v, want %v", KindOf(err), KindAlreadyExists)
	}
	if !IsKind(err, KindAlreadyExists) {
		t.Error("IsKind should match")
	}
	if IsKind(err, KindNotFound) {
		t.Error("IsKind should not match a different kind")
	}
	if KindOf(stderrors.New("plain")) != "" {
		t.Error("KindOf of a non-structured error should be empty")
	}
}

func TestWrappedChain(t *testing.T) {
	cause := fmt.Errorf("disk gone")
	err := fmt.Errorf("opening: %w", Engine("engine.Open", -68, cause))

	var e *Error
	if !stderrors.As(err, &e) {
		t.Fatal("errors.As failed through wrapping")
	}
	if e.Status != -68 {
		t.Errorf("Status = %d, want -68", e.Status)
	}
	if !stderrors.Is(err, cause) {
		t.Error("cause should be reachable via errors.Is")
	}
	if !IsKind(err, KindEngine) {
		t.Error("IsKind should see through fmt wrapping")
	}
}

func TestIsMatchesKind(t *testing.T) {
	err := NotFound("Group.Variable", "v")
	if !stderrors.Is(err, &Error{Kind: KindNotFound}) {
		t.Error("Is should match on kind alone")
	}
	if stderrors.Is(err, &Error{Kind: KindNotFound, Op: "File.Open"}) {
		t.Error("Is should respect a specified Op")
	}
}
