// Package bind parses multipart uploads and form values and validates them
package bind

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "birdspot/internal/platform/errors"
	"birdspot/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// DefaultMaxMemory is the in-memory budget for multipart parsing
const DefaultMaxMemory = 32 << 20

// ValidatorSvc holds a singleton validator and translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *ValidatorSvc
)

// Get returns the validator singleton with english translations and form tag names
func Get() *ValidatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			return tagName(fld)
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)
		registerShort(v, trans, "max", "{0} must be at most {1}")
		registerShort(v, trans, "min", "{0} must be at least {1}")

		vSvc = &ValidatorSvc{Validator: v, Translator: trans}
	})
	return vSvc
}

// Validate runs struct validation and maps the first failure to a Validation error with its field
func Validate(v any) error {
	err := Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Get().Error().Err(inv).Msg("validator internal error")
		return perr.Internalf("validation error")
	}
	field, msg := FieldAndMessage(err)
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
}

// FieldAndMessage returns the first failing field and its translated message
func FieldAndMessage(err error) (field, message string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(Get().Translator)
	}
	if err == nil {
		return "", ""
	}
	return "", err.Error()
}

// ParseForm decodes url-encoded or multipart form values into T and validates it
// string fields take the first value; []string fields take every value
func ParseForm[T any](r *http.Request, maxMemory int64) (T, error) {
	var dst T
	if err := parse(r, maxMemory); err != nil {
		return dst, err
	}
	rv := reflect.ValueOf(&dst).Elem()
	if rv.Kind() != reflect.Struct {
		return dst, perr.Internalf("bind: %T is not a struct", dst)
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name := f.Tag.Get("form")
		if name == "" || name == "-" || !f.IsExported() {
			continue
		}
		vals := r.Form[name]
		if r.MultipartForm != nil && len(vals) == 0 {
			vals = r.MultipartForm.Value[name]
		}
		if len(vals) == 0 {
			continue
		}
		fv := rv.Field(i)
		switch {
		case fv.Kind() == reflect.String:
			fv.SetString(strings.TrimSpace(vals[0]))
		case fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.String:
			fv.Set(reflect.ValueOf(append([]string(nil), vals...)))
		}
	}
	if err := Validate(dst); err != nil {
		return dst, err
	}
	return dst, nil
}

// Upload is one file part read fully into memory
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Size is the payload length in bytes
func (u Upload) Size() int { return len(u.Data) }

// File reads the multipart part named field
// a missing or empty part is a Validation error on that field
func File(r *http.Request, field string, maxMemory int64) (Upload, error) {
	if err := parse(r, maxMemory); err != nil {
		return Upload{}, err
	}
	f, hdr, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return Upload{}, perr.WithField(perr.Validationf("%s file is required", field), field)
		}
		return Upload{}, perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "unreadable upload"), field)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return Upload{}, perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "unreadable upload"), field)
	}
	if len(data) == 0 {
		return Upload{}, perr.WithField(perr.Validationf("%s file is empty", field), field)
	}
	return Upload{
		Field:       field,
		Filename:    hdr.Filename,
		ContentType: mediaType(hdr),
		Data:        data,
	}, nil
}

// RequireContentType accepts the upload when its media type matches one of allowed
// entries ending in "/" match a family, "" matches an absent content type
func RequireContentType(u Upload, allowed ...string) error {
	for _, a := range allowed {
		switch {
		case a == "" && u.ContentType == "":
			return nil
		case a != "" && strings.HasSuffix(a, "/") && strings.HasPrefix(u.ContentType, a):
			return nil
		case a != "" && u.ContentType == a:
			return nil
		}
	}
	ct := u.ContentType
	if ct == "" {
		ct = "none"
	}
	return perr.WithField(perr.Validationf("unsupported content type %s", ct), u.Field)
}

func parse(r *http.Request, maxMemory int64) error {
	if r.Form != nil {
		return nil
	}
	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemory
	}
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if ct == "multipart/form-data" {
		err = r.ParseMultipartForm(maxMemory)
	} else {
		err = r.ParseForm()
	}
	if err == nil {
		return nil
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return perr.Wrapf(err, perr.ErrorCodeValidation, "request body exceeds %d bytes", mbe.Limit)
	}
	return perr.Wrap(err, perr.ErrorCodeValidation, "malformed form body")
}

func mediaType(h *multipart.FileHeader) string {
	raw := strings.TrimSpace(h.Header.Get("Content-Type"))
	if raw == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.ToLower(raw)
	}
	return mt
}

func tagName(fld reflect.StructField) string {
	for _, key := range []string{"form", "json"} {
		tag := fld.Tag.Get(key)
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		if tag != "" && tag != "-" {
			return tag
		}
	}
	return fld.Name
}

func registerShort(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error { return ut.Add(tag, text, true) },
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}
