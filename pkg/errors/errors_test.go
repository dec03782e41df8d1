package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "parse_error",
			code:    errors.ErrParse,
			message: "missing config section",
			wantStr: "[PARSE] missing config section",
		},
		{
			name:    "filesystem_error",
			code:    errors.ErrFilesystem,
			message: "cannot copy file",
			wantStr: "[FILESYSTEM] cannot copy file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrInvalidInput, "unknown package %q", "vim")
	assert.Equal(t, `unknown package "vim"`, err.Message)
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrFilesystem, "copy failed")

		require.NotNil(t, err)
		assert.Equal(t, errors.ErrFilesystem, err.Code)
		assert.Same(t, baseErr, err.Wrapped)
		assert.Equal(t, "[FILESYSTEM] copy failed: base error", err.Error())
		assert.True(t, stderrors.Is(err, baseErr))
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "internal error"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrInternal, "internal %s", "error"))
	})

	t.Run("wrapf_formats_message", func(t *testing.T) {
		err := errors.Wrapf(baseErr, errors.ErrParse, "parsing %s", "dot.yml")
		assert.Equal(t, "parsing dot.yml", err.Message)
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrFilesystem, "copy failed").
		WithDetail("src", "/pkg/a.conf").
		WithDetail("dst", "/home/.config")

	assert.Equal(t, "/pkg/a.conf", err.Details["src"])
	assert.Equal(t, "/home/.config", errors.GetErrorDetails(err)["dst"])
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrParse, "error 1")
	err2 := errors.New(errors.ErrParse, "error 2")
	err3 := errors.New(errors.ErrFilesystem, "error 3")

	assert.True(t, stderrors.Is(err1, err2), "same code should match")
	assert.False(t, stderrors.Is(err1, err3), "different codes should not match")
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.ErrorCode
	}{
		{"direct", errors.New(errors.ErrSubprocess, "exit 1"), errors.ErrSubprocess},
		{"wrapped_by_fmt", fmt.Errorf("context: %w", errors.New(errors.ErrParse, "bad")), errors.ErrParse},
		{"standard_error", stderrors.New("plain"), errors.ErrUnknown},
		{"nil", nil, errors.ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.GetErrorCode(tt.err))
			assert.Equal(t, tt.want != errors.ErrUnknown, errors.IsErrorCode(tt.err, tt.want))
		})
	}
}
