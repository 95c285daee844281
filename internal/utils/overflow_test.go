package utils

import (
	"math"
	"strings"
	"testing"
)

func TestCheckMultiplyOverflow(t *testing.T) {
	tests := []struct {
		name    string
		a       uint64
		b       uint64
		wantErr bool
	}{
		{name: "no overflow - small numbers", a: 10, b: 20, wantErr: false},
		{name: "no overflow - one zero", a: 0, b: math.MaxUint64, wantErr: false},
		{name: "no overflow - both zero", a: 0, b: 0, wantErr: false},
		{name: "overflow - max * 2", a: math.MaxUint64, b: 2, wantErr: true},
		{name: "overflow - large numbers", a: math.MaxUint64 / 2, b: 3, wantErr: true},
		{name: "no overflow - exact max", a: math.MaxUint64, b: 1, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckMultiplyOverflow(tt.a, tt.b)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckMultiplyOverflow(%d, %d) error = %v, wantErr %v", tt.a, tt.b, err, tt.wantErr)
			}
		})
	}
}

func TestSafeMultiply(t *testing.T) {
	tests := []struct {
		name    string
		a       uint64
		b       uint64
		want    uint64
		wantErr bool
	}{
		{name: "normal multiplication", a: 10, b: 20, want: 200, wantErr: false},
		{name: "zero multiplication", a: 0, b: 100, want: 0, wantErr: false},
		{name: "overflow", a: math.MaxUint64, b: 2, want: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeMultiply(tt.a, tt.b)
			if (err != nil) != tt.wantErr {
				t.Errorf("SafeMultiply(%d, %d) error = %v, wantErr %v", tt.a, tt.b, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("SafeMultiply(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSafeAdd(t *testing.T) {
	tests := []struct {
		name    string
		a       uint64
		b       uint64
		want    uint64
		wantErr bool
	}{
		{name: "text+data+bss fits in 16 bits", a: 0x200, b: 0x100, want: 0x300, wantErr: false},
		{name: "exact max", a: math.MaxUint64, b: 0, want: math.MaxUint64, wantErr: false},
		{name: "overflow", a: math.MaxUint64, b: 1, want: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeAdd(tt.a, tt.b)
			if (err != nil) != tt.wantErr {
				t.Errorf("SafeAdd(%d, %d) error = %v, wantErr %v", tt.a, tt.b, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("SafeAdd(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAlignUp(t *testing.T) {
	tests := []struct {
		name    string
		size    uint64
		align   uint64
		want    uint64
		wantErr bool
	}{
		{name: "already aligned", size: 0x1000, align: 256, want: 0x1000},
		{name: "rounds up to page", size: 0x1001, align: 256, want: 0x1100},
		{name: "byte alignment is a no-op", size: 0x1234, align: 1, want: 0x1234},
		{name: "word alignment", size: 0x0201, align: 2, want: 0x0202},
		{name: "long alignment", size: 0x0205, align: 4, want: 0x0208},
		{name: "non power of two rejected", size: 10, align: 3, wantErr: true},
		{name: "zero alignment rejected", size: 10, align: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AlignUp(tt.size, tt.align)
			if (err != nil) != tt.wantErr {
				t.Errorf("AlignUp(%d, %d) error = %v, wantErr %v", tt.size, tt.align, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("AlignUp(%d, %d) = %d, want %d", tt.size, tt.align, got, tt.want)
			}
		})
	}
}

func TestValidateBufferSize(t *testing.T) {
	tests := []struct {
		name        string
		size        uint64
		maxSize     uint64
		description string
		wantErr     bool
		errContains string
	}{
		{name: "valid size", size: 1000, maxSize: 10000, description: "test buffer", wantErr: false},
		{name: "exact max", size: 10000, maxSize: 10000, description: "test buffer", wantErr: false},
		{name: "zero size is allowed", size: 0, maxSize: 10000, description: "test buffer", wantErr: false},
		{
			name: "exceeds max", size: 10001, maxSize: 10000, description: "test buffer",
			wantErr: true, errContains: "exceeds maximum",
		},
		{
			name: "oversized segment", size: MaxSegmentSize + 1, maxSize: MaxSegmentSize,
			description: "text segment", wantErr: true, errContains: "exceeds maximum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBufferSize(tt.size, tt.maxSize, tt.description)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBufferSize(%d, %d, %q) error = %v, wantErr %v", tt.size, tt.maxSize, tt.description, err, tt.wantErr)
				return
			}
			if err != nil && tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("ValidateBufferSize(%d, %d, %q) error = %v, want error containing %q", tt.size, tt.maxSize, tt.description, err, tt.errContains)
			}
		})
	}
}
