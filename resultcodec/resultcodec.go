// Package resultcodec encodes and decodes the JSON wire types: a SieveJob
// request and its matching SieveResult response. The CLI's --json mode
// encodes SieveResult; no CLI flag reads a SieveJob.
//
// Grounded on syncharvester.go's sonnet.Unmarshal usage in the corpus —
// sonnet is a drop-in, faster encoding/json replacement, used here the same
// way: Marshal/Unmarshal calls with the exact same signatures as the
// standard library.
package resultcodec

import (
	"github.com/sugawarayuuta/sonnet"
)

// SieveJob is a sieve request: compute primes in [Start, Stop). CountOnly
// requests a count without the full prime listing.
type SieveJob struct {
	Start     uint64 `json:"start"`
	Stop      uint64 `json:"stop"`
	CountOnly bool   `json:"count_only"`
}

// SieveResult is a sieve response. Primes is omitted (nil) when the
// originating job had CountOnly set.
type SieveResult struct {
	Start    uint64   `json:"start"`
	Stop     uint64   `json:"stop"`
	Count    uint64   `json:"count"`
	Checksum [32]byte `json:"checksum"`
	Primes   []uint64 `json:"primes,omitempty"`
}

// EncodeJob marshals a SieveJob to JSON.
func EncodeJob(job SieveJob) ([]byte, error) {
	return sonnet.Marshal(job)
}

// DecodeJob unmarshals a SieveJob from JSON.
func DecodeJob(data []byte) (SieveJob, error) {
	var job SieveJob
	err := sonnet.Unmarshal(data, &job)
	return job, err
}

// EncodeResult marshals a SieveResult to JSON.
func EncodeResult(result SieveResult) ([]byte, error) {
	return sonnet.Marshal(result)
}

// DecodeResult unmarshals a SieveResult from JSON.
func DecodeResult(data []byte) (SieveResult, error) {
	var result SieveResult
	err := sonnet.Unmarshal(data, &result)
	return result, err
}
