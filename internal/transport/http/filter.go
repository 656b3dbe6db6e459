package http

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apierrors "wricefviz/internal/errors"
	"wricefviz/internal/tracker"
)

// filterParams carries the query string filter parameters before
// validation.
type filterParams struct {
	Implementation string `json:"implementation" validate:"omitempty,max=64"`
	WRICEFType     string `json:"type" validate:"omitempty,max=64"`
	Complexity     string `json:"complexity" validate:"omitempty,max=64"`
	Priority       string `json:"priority" validate:"omitempty,max=64"`
	Stage          string `json:"stage" validate:"omitempty,max=64"`
	From           string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To             string `json:"to" validate:"omitempty,datetime=2006-01-02"`
}

func newFilterValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseFilter extracts and validates the tracker filter from the query
// string.
func parseFilter(r *http.Request, v *validator.Validate) (tracker.Filter, *apierrors.APIError) {
	q := r.URL.Query()
	params := filterParams{
		Implementation: q.Get("implementation"),
		WRICEFType:     q.Get("type"),
		Complexity:     q.Get("complexity"),
		Priority:       q.Get("priority"),
		Stage:          q.Get("stage"),
		From:           q.Get("from"),
		To:             q.Get("to"),
	}

	if err := v.Struct(params); err != nil {
		var fields []apierrors.ValidationError
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, apierrors.ValidationError{
					Field:   fe.Field(),
					Message: validationMessage(fe),
				})
			}
		}
		if len(fields) == 0 {
			return tracker.Filter{}, apierrors.InvalidRequestWithError(err)
		}
		return tracker.Filter{}, apierrors.NewValidationErrors(fields)
	}

	f := tracker.Filter{
		Implementation: params.Implementation,
		WRICEFType:     params.WRICEFType,
		Complexity:     params.Complexity,
		Priority:       params.Priority,
		Stage:          params.Stage,
	}
	if params.From != "" {
		t, _ := time.Parse("2006-01-02", params.From)
		f.From = t
	}
	if params.To != "" {
		t, _ := time.Parse("2006-01-02", params.To)
		f.To = t
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return tracker.Filter{}, apierrors.ErrValidation("to", "must not be before from")
	}
	return f, nil
}

// parsePage reads the optional offset and limit query parameters for
// row listing. A zero limit means all rows.
func parsePage(r *http.Request) (offset, limit int, apiErr *apierrors.APIError) {
	q := r.URL.Query()
	var err error
	if s := q.Get("offset"); s != "" {
		if offset, err = strconv.Atoi(s); err != nil || offset < 0 {
			return 0, 0, apierrors.ErrValidation("offset", "must be a non-negative integer")
		}
	}
	if s := q.Get("limit"); s != "" {
		if limit, err = strconv.Atoi(s); err != nil || limit < 0 {
			return 0, 0, apierrors.ErrValidation("limit", "must be a non-negative integer")
		}
	}
	return offset, limit, nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "max":
		return "value too long"
	default:
		return "invalid value"
	}
}
