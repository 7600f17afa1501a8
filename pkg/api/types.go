package api

import (
	"time"

	"github.com/ssargent/bandkit/pkg/raster"
	"github.com/ssargent/bandkit/pkg/storage"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port   int
	Bind   string
	APIKey string // Empty disables authentication
	Debug  bool
}

// IBandStore defines the band store operations the API needs
type IBandStore interface {
	Create(spec storage.DatasetSpec) (*storage.StoredDataset, error)
	Open(id string) (*storage.StoredDataset, error)
	List() ([]storage.DatasetInfo, error)
	Drop(id string) error
}

// TypeInfo describes one pixel type in the mapping table
type TypeInfo struct {
	Tag      uint8  `json:"tag"`
	Name     string `json:"name"`
	HostType string `json:"host_type,omitempty"`
	Size     int    `json:"size,omitempty"`
	Width    int    `json:"width,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Codable  bool   `json:"codable"`
}

// ValuesRequest carries samples to encode or write. Values are JSON numbers;
// the strings "NaN", "Inf", "+Inf" and "-Inf" are accepted for real types.
type ValuesRequest struct {
	Values []interface{} `json:"values"`
}

// SamplesResponse is the result of a decode or a band read
type SamplesResponse struct {
	Type     string         `json:"type"`
	HostType string         `json:"host_type"`
	Count    int            `json:"count"`
	Region   *raster.Region `json:"region,omitempty"`
	Values   []interface{}  `json:"values"`
}

// CreateDatasetRequest represents a dataset creation request
type CreateDatasetRequest struct {
	XSize int    `json:"xsize"`
	YSize int    `json:"ysize"`
	Bands int    `json:"bands"`
	Type  string `json:"type"`
}

// DatasetResponse describes a stored dataset
type DatasetResponse struct {
	ID       string    `json:"id"`
	XSize    int       `json:"xsize"`
	YSize    int       `json:"ysize"`
	Bands    int       `json:"bands"`
	Type     string    `json:"type"`
	HostType string    `json:"host_type,omitempty"`
	Created  time.Time `json:"created"`
}
