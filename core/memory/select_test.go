package memory

import (
	"testing"

	"github.com/leofalp/chatmemory/providers/history/inmemory"
)

func TestSelectVariantPolicy(t *testing.T) {
	tests := []struct {
		name             string
		version          float64
		supportToolCalls bool
		want             string
	}{
		{"pre-1.1 without tools", 1.0, false, VariantBuffer},
		{"pre-1.1 with tools still buffer", 1.0, true, VariantBuffer},
		{"1.1 without tools", 1.1, false, VariantWindow},
		{"1.1 with tools still windowed", 1.1, true, VariantWindow},
		{"1.3 with tools still windowed", 1.3, true, VariantWindow},
		{"1.4 without tools", 1.4, false, VariantWindow},
		{"1.4 with tools", 1.4, true, VariantToolAware},
		{"1.5 with tools", 1.5, true, VariantToolAware},
		{"1.5 without tools", 1.5, false, VariantWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Select(inmemory.New(), tt.version, tt.supportToolCalls, 5)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if m.Variant() != tt.want {
				t.Errorf("Select(%v, %v) = %s, want %s", tt.version, tt.supportToolCalls, m.Variant(), tt.want)
			}
		})
	}
}

func TestSelectPropagatesWindowSize(t *testing.T) {
	m, err := Select(inmemory.New(), 1.2, false, 3)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	window, ok := m.(*Window)
	if !ok {
		t.Fatalf("Select() returned %T, want *Window", m)
	}
	if window.Turns() != 3 {
		t.Errorf("Turns() = %d, want 3", window.Turns())
	}
}

func TestSelectPropagatesOptions(t *testing.T) {
	m, err := Select(inmemory.New(), 1.4, true, 5, WithMemoryKey("history"))
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if keys := m.MemoryKeys(); len(keys) != 1 || keys[0] != "history" {
		t.Errorf("MemoryKeys() = %v, want [history]", keys)
	}
}
