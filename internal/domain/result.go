package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// InputValue is the value exactly as the caller entered it. On the wire it
// may be a JSON or MessagePack number or string; parsing happens in Resolve
// so bad input surfaces as an InvalidInputError rather than a decode error.
type InputValue string

func (v *InputValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = InputValue(s)
	default:
		*v = InputValue(data)
	}
	return nil
}

func (v *InputValue) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeInterface()
	if err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = ""
	case string:
		*v = InputValue(x)
	case float64:
		*v = InputValue(strconv.FormatFloat(x, 'g', -1, 64))
	case float32:
		*v = InputValue(strconv.FormatFloat(float64(x), 'g', -1, 32))
	default:
		*v = InputValue(fmt.Sprint(x))
	}
	return nil
}

// ConversionRequest is one submission: convert Value from From to To within Category.
type ConversionRequest struct {
	ID       string     `json:"id,omitempty" msgpack:"id,omitempty"`
	Category string     `json:"category" msgpack:"category"`
	From     string     `json:"from" msgpack:"from"`
	To       string     `json:"to" msgpack:"to"`
	Value    InputValue `json:"value" msgpack:"value"`
}

// ResultError describes why a conversion produced no result.
type ResultError struct {
	Kind    string `json:"kind" msgpack:"kind"`
	Message string `json:"message" msgpack:"message"`
}

// ErrorKind maps the wire kind back to an ErrorKind.
func (e ResultError) ErrorKind() ErrorKind {
	for _, k := range []ErrorKind{KindInvalidInput, KindConfig, KindInvalidConversion} {
		if k.String() == e.Kind {
			return k
		}
	}
	return KindUnknown
}

// ConversionResult is the caller-facing record of one conversion.
type ConversionResult struct {
	ID              string       `json:"id" msgpack:"id"`
	Category        string       `json:"category" msgpack:"category"`
	From            string       `json:"from" msgpack:"from"`
	To              string       `json:"to" msgpack:"to"`
	Input           string       `json:"input" msgpack:"input"`
	Value           float64      `json:"value" msgpack:"value"`
	Result          float64      `json:"result" msgpack:"result"`
	FormattedValue  string       `json:"formatted_value,omitempty" msgpack:"formatted_value,omitempty"`
	FormattedResult string       `json:"formatted_result,omitempty" msgpack:"formatted_result,omitempty"`
	Calculation     string       `json:"calculation,omitempty" msgpack:"calculation,omitempty"`
	Error           *ResultError `json:"error,omitempty" msgpack:"error,omitempty"`
	ProcessedAt     time.Time    `json:"processed_at" msgpack:"processed_at"`
}

// Outcome is "ok" for a successful conversion, otherwise the error kind.
func (r ConversionResult) Outcome() string {
	if r.Error == nil {
		return KindNone.String()
	}
	return r.Error.Kind
}

// Resolve parses, converts and formats req. Failures are recorded on the
// returned result instead of being returned, so every request yields a record.
func (c *Converter) Resolve(req ConversionRequest) ConversionResult {
	res := ConversionResult{
		ID:          req.ID,
		Category:    req.Category,
		From:        req.From,
		To:          req.To,
		Input:       string(req.Value),
		ProcessedAt: clock.Now().UTC(),
	}
	if res.ID == "" {
		res.ID = newID()
	}

	value, err := ParseValue(string(req.Value))
	if err != nil {
		res.Error = newResultError(err)
		return res
	}
	res.Value = value
	res.FormattedValue = FormatValue(value)

	result, err := c.Convert(value, req.From, req.To, req.Category)
	if err != nil {
		res.Error = newResultError(err)
		return res
	}
	res.Result = result
	res.FormattedResult = FormatValue(result)
	if caption, ok := c.Calculation(value, result, req.From, req.To, req.Category); ok {
		res.Calculation = caption
	}
	return res
}

// Resolve resolves req against the reference unit table.
func Resolve(req ConversionRequest) ConversionResult {
	return defaultConverter.Resolve(req)
}

// InvalidInputMessage is shown to end users for any unparseable value.
const InvalidInputMessage = "Invalid input. Please enter a valid number."

// UserMessage is the text shown to an end user for a failed conversion.
func UserMessage(err error) string {
	if KindOf(err) == KindInvalidInput {
		return InvalidInputMessage
	}
	return fmt.Sprintf("An error occurred during conversion: %v", err)
}

// UserMessage is the end-user text for a recorded failure.
func (e ResultError) UserMessage() string {
	if e.ErrorKind() == KindInvalidInput {
		return InvalidInputMessage
	}
	return "An error occurred during conversion: " + e.Message
}

func newResultError(err error) *ResultError {
	return &ResultError{Kind: KindOf(err).String(), Message: err.Error()}
}
