package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"valid CPF", "529.982.247-25", false},
		{"valid CPF digits only", "52998224725", false},
		{"CPF wrong check digit", "529.982.247-26", true},
		{"CPF all equal", "111.111.111-11", true},
		{"valid CNPJ", "11.222.333/0001-81", false},
		{"CNPJ wrong check digit", "11.222.333/0001-80", true},
		{"CNPJ all equal", "00000000000000", true},
		{"too short", "1234", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOnlyDigits(t *testing.T) {
	assert.Equal(t, "11222333000181", OnlyDigits("11.222.333/0001-81"))
	assert.Equal(t, "", OnlyDigits("abc"))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "ab", SanitizeString("a\x00b\x7f"))
	assert.Equal(t, "Compra de cadeiras", SanitizeString("Compra de cadeiras"))
}

func TestKeyValueLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewKeyValueLogger(zap.New(core)).Named("save")

	logger.Info("Record saved", "temp_id", "t1", "steps", 2)
	logger.Error("Upload failed", "file", "nota.pdf")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "Record saved", entries[0].Message)
		assert.Equal(t, "save", entries[0].LoggerName)
		assert.Equal(t, "t1", entries[0].ContextMap()["temp_id"])
		assert.Equal(t, int64(2), entries[0].ContextMap()["steps"])
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	}
}

func TestKeyValueLogger_NilDiscards(t *testing.T) {
	assert.NotPanics(t, func() {
		NewKeyValueLogger(nil).Info("ignored", "k", "v")
	})
}
