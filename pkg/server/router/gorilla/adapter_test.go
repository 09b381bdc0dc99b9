package gorilla

import (
	"testing"

	"github.com/mistertoy/mistertoy-server/pkg/server/router"
	"github.com/mistertoy/mistertoy-server/pkg/server/router/contract"
)

func TestGorillaRouterContract(t *testing.T) {
	contract.TestRouterContract(t, func() router.Router { return NewRouter() })
}

func TestToMuxPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/toy", "/toy"},
		{"/toy/:id", "/toy/{id}"},
		{"/toy/:id/msg/:msgId", "/toy/{id}/msg/{msgId}"},
		{"/", "/"},
	}
	for _, tt := range tests {
		if got := toMuxPath(tt.in); got != tt.want {
			t.Fatalf("toMuxPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
