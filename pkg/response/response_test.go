package response

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"CivicLink/pkg/errors"
)

func TestErrorToHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errors.Unauthorized, http.StatusUnauthorized},
		{errors.CredentialsInvalid, http.StatusUnauthorized},
		{errors.StaffInactive, http.StatusForbidden},
		{errors.ReportNotFound, http.StatusNotFound},
		{errors.OnboardingNotFound, http.StatusNotFound},
		{errors.InvitationNotFound, http.StatusNotFound},
		{errors.OnboardingStepIncomplete, http.StatusBadRequest},
		{errors.OnboardingStepNotSkippable, http.StatusBadRequest},
		{errors.ReportTransitionDenied, http.StatusBadRequest},
		{errors.ReportPhoneInvalid, http.StatusBadRequest},
		{errors.SliderFailed, http.StatusBadRequest},
		{errors.SliderRequired, http.StatusTooManyRequests},
		{errors.TooManyRequests, http.StatusTooManyRequests},
	}

	for _, c := range cases {
		def := c.err.(errors.Definition)
		assert.Equal(t, c.want, errorToHTTPStatus(c.err), "code %s", def.Code)
	}
}

func TestErrorToHTTPStatusUnknownError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, errorToHTTPStatus(assert.AnError))

	// 未收录的业务码兜底到 500
	unknown := errors.Definition{Code: "SOMETHING_NEW", Message: "?"}
	assert.Equal(t, http.StatusInternalServerError, errorToHTTPStatus(unknown))
}
