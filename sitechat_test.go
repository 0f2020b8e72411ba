package sitechat_test

import (
	"errors"
	"testing"

	"github.com/sitechat/sitechat"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := sitechat.Errorf(sitechat.ENOTFOUND, "namespace %q not found", "acme_docs")

	assert.Equal(t, sitechat.ENOTFOUND, sitechat.ErrorCode(err))
	assert.Equal(t, "namespace \"acme_docs\" not found", sitechat.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sitechat.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, sitechat.EINTERNAL, sitechat.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sitechat.ErrorMessage(nil))
}

func TestErrorMessage_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Internal error.", sitechat.ErrorMessage(errors.New("boom")))
}
