package api

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/kbukum/speechkit/audio"
	apperrors "github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/validation"
)

// Form field names.
const (
	formFile      = "file"
	formSrcLang   = "src_lang"
	formTgtLang   = "tgt_lang"
	formTranslate = "translate"
)

// upload is an audio payload taken from a request.
type upload struct {
	data []byte
	hint string
}

// readUpload reads the multipart "file" field. The format hint is the file
// name when it carries an extension and the part's Content-Type otherwise.
func readUpload(c *gin.Context) (*upload, error) {
	fh, err := c.FormFile(formFile)
	if err != nil {
		switch {
		case errors.Is(err, http.ErrMissingFile):
			return nil, apperrors.MissingField(formFile)
		case isTooLarge(err):
			return nil, readError(err)
		}
		return nil, apperrors.InvalidInput(formFile, "expected a multipart/form-data upload")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, readError(err)
	}
	if verr := validation.New().NonEmpty(formFile, data).Validate(); verr != nil {
		return nil, verr
	}

	hint := fh.Filename
	if filepath.Ext(hint) == "" {
		hint = fh.Header.Get("Content-Type")
	}
	return &upload{data: data, hint: hint}, nil
}

// readBody reads a raw audio body. The hint is the "filename" query
// parameter when given, then the Content-Type header, then "wav".
func readBody(c *gin.Context) (*upload, error) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, readError(err)
	}
	if verr := validation.New().NonEmpty("body", data).Validate(); verr != nil {
		return nil, verr
	}
	hint := c.Query("filename")
	if hint == "" {
		hint = c.ContentType()
	}
	if hint == "" {
		hint = "wav"
	}
	return &upload{data: data, hint: hint}, nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func readError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperrors.PayloadTooLarge(maxErr.Limit)
	}
	return apperrors.InvalidInput("body", "the upload could not be read")
}

// standardize reads the upload and decodes it. On failure the error response
// has been written and the returned waveform is nil.
func (h *Handler) standardize(c *gin.Context, read func(*gin.Context) (*upload, error)) *audio.Waveform {
	up, err := read(c)
	if err != nil {
		h.fail(c, err)
		return nil
	}
	w, err := h.deps.Preparer.Standardize(c.Request.Context(), up.data, up.hint)
	if err != nil {
		h.fail(c, err)
		return nil
	}
	return w
}

// languageForm holds the optional language fields of multipart requests.
// Each is read from the form body first and the query string second.
type languageForm struct {
	Source    string
	Target    string
	Translate bool
}

func readLanguageForm(c *gin.Context) languageForm {
	return languageForm{
		Source:    formValue(c, formSrcLang),
		Target:    formValue(c, formTgtLang),
		Translate: cast.ToBool(formValue(c, formTranslate)),
	}
}

func formValue(c *gin.Context, key string) string {
	if v, ok := c.GetPostForm(key); ok {
		return v
	}
	return c.Query(key)
}
