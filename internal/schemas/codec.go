package schemas

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// Record kinds carried in an Envelope
const (
	KindAnalysisResult = "analysis_result"
	KindProgressEvent  = "progress_event"
)

// CurrentVersion is the version written by Encode
const CurrentVersion = 1

const envelopeSchema = "envelope.schema.json"

// Envelope is the tagged wrapper every persisted or published record uses
type Envelope struct {
	Kind    string          `json:"kind"`
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// UnsupportedVersionError is returned when a record was written by a newer codec
type UnsupportedVersionError struct {
	Kind    string
	Version int
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported %s version %d", e.Kind, e.Version)
}

// KindMismatchError is returned when an envelope holds a different record kind
type KindMismatchError struct {
	Want string
	Got  string
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("expected %s record, got %s", e.Want, e.Got)
}

func dataSchema(kind string, version int) string {
	return fmt.Sprintf("%s.v%d.schema.json", kind, version)
}

// Encode wraps v in a current-version envelope after validating it
func Encode(kind string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", kind, err)
	}
	if err := Validate(dataSchema(kind, CurrentVersion), data); err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Kind: kind, Version: CurrentVersion, Data: data})
}

// Decode validates an envelope and its payload, then unmarshals the payload into out
func Decode(raw []byte, kind string, out any) error {
	if err := Validate(envelopeSchema, raw); err != nil {
		return err
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to parse envelope: %w", err)
	}
	if env.Kind != kind {
		return &KindMismatchError{Want: kind, Got: env.Kind}
	}
	if env.Version > CurrentVersion {
		return &UnsupportedVersionError{Kind: env.Kind, Version: env.Version}
	}
	if err := Validate(dataSchema(env.Kind, env.Version), env.Data); err != nil {
		return err
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", kind, err)
	}
	return nil
}

// EncodeAnalysisResult serializes a result for storage
func EncodeAnalysisResult(r *types.AnalysisResult) ([]byte, error) {
	return Encode(KindAnalysisResult, r)
}

// DecodeAnalysisResult restores a stored result
func DecodeAnalysisResult(raw []byte) (*types.AnalysisResult, error) {
	var r types.AnalysisResult
	if err := Decode(raw, KindAnalysisResult, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// EncodeProgressEvent serializes an event for an external broker
func EncodeProgressEvent(e types.ProgressEvent) ([]byte, error) {
	return Encode(KindProgressEvent, e)
}

// DecodeProgressEvent restores an event received from a broker
func DecodeProgressEvent(raw []byte) (types.ProgressEvent, error) {
	var e types.ProgressEvent
	err := Decode(raw, KindProgressEvent, &e)
	return e, err
}
