package cpf

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"masked valid", "529.982.247-25", true},
		{"digits only", "52998224725", true},
		{"another valid", "111.444.777-35", true},
		{"wrong first digit", "529.982.247-35", false},
		{"wrong second digit", "529.982.247-26", false},
		{"too short", "5299822472", false},
		{"too long", "529982247251", false},
		{"empty", "", false},
		{"letters", "abc.def.ghi-jk", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.input))
		})
	}
}

func TestValid_RepeatedDigitsAlwaysFail(t *testing.T) {
	for d := '0'; d <= '9'; d++ {
		s := strings.Repeat(string(d), Length)
		assert.False(t, Valid(s), s)
	}
}

func TestValid_GeneratedAndAltered(t *testing.T) {
	for n := 100000000; n < 999999999; n += 7654321 {
		base := fmt.Sprintf("%09d", n)
		first, second := CheckDigits(base)
		valid := fmt.Sprintf("%s%d%d", base, first, second)
		if repeated(valid) {
			continue
		}
		assert.True(t, Valid(valid), valid)

		for k := 1; k <= 9; k++ {
			alteredFirst := fmt.Sprintf("%s%d%d", base, (first+k)%10, second)
			alteredSecond := fmt.Sprintf("%s%d%d", base, first, (second+k)%10)
			assert.False(t, Valid(alteredFirst), alteredFirst)
			assert.False(t, Valid(alteredSecond), alteredSecond)
		}
	}
}

func TestMask(t *testing.T) {
	assert.Equal(t, "529.982.247-25", Mask("52998224725"))
	assert.Equal(t, "529.982.247-25", Mask("529.982.247-25"))
	assert.Equal(t, "529.98", Mask("52998"))
	assert.Equal(t, "", Mask(""))
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "52998224725", Digits("529.982.247-25"))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "(11) 98765-4321", MaskPhone("11987654321"))
	assert.Equal(t, "(11) 3456-7890", MaskPhone("1134567890"))
	assert.Equal(t, "(11) 98", MaskPhone("1198"))
}
