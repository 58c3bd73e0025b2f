package domain

import (
	"fmt"
	"time"
)

type Kind string

const (
	KindCrop            Kind = "crop"
	KindModel           Kind = "model"
	KindFilter          Kind = "filter"
	KindPredictionStart Kind = "prediction-start"
	KindPredictionStop  Kind = "prediction-stop"
	KindClassification  Kind = "classification"
)

var kinds = map[Kind]struct{}{
	KindCrop:            {},
	KindModel:           {},
	KindFilter:          {},
	KindPredictionStart: {},
	KindPredictionStop:  {},
	KindClassification:  {},
}

func ParseKind(raw string) (Kind, error) {
	k := Kind(raw)
	if _, ok := kinds[k]; !ok {
		return "", fmt.Errorf("unknown journal kind %q", raw)
	}
	return k, nil
}

// Entry is one line of the console's activity trail. Payload holds the
// machine readable form (JSON) of what Detail describes.
type Entry struct {
	ID        int64
	Kind      Kind
	Detail    string
	Payload   string
	SessionID string
	At        time.Time
}
