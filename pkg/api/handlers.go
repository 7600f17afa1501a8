package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"

	"github.com/ssargent/bandkit/pkg/codec"
	"github.com/ssargent/bandkit/pkg/raster"
	"github.com/ssargent/bandkit/pkg/storage"
)

// maxBodyBytes caps decode, encode and band write request bodies.
const maxBodyBytes = 64 << 20

var errInvalidRequest = errors.New("invalid request")

// Server holds the API server state
type Server struct {
	store   IBandStore
	codec   *codec.PixelCodec
	config  ServerConfig
	metrics *Metrics

	// readers holds one Reader per opened dataset ID
	readersMu sync.Mutex
	readers   map[string]*raster.Reader
}

// NewServer creates a new API server. A nil codec uses native byte order, and
// nil metrics are registered with a private registry.
func NewServer(store IBandStore, pc *codec.PixelCodec, config ServerConfig, metrics *Metrics) *Server {
	if pc == nil {
		pc = codec.NewPixelCodec()
	}
	if metrics == nil {
		metrics = NewMetrics(prometheus.NewRegistry())
	}
	return &Server{
		store:   store,
		codec:   pc,
		config:  config,
		metrics: metrics,
		readers: make(map[string]*raster.Reader),
	}
}

func (s *Server) debugf(format string, args ...interface{}) {
	if s.config.Debug {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleTypes godoc
//
//	@Summary		List pixel types
//	@Description	Get the pixel type mapping table: host type, sample size and byte layout per tag
//	@Tags			codec
//	@Produce		json
//	@Success		200	{array}	TypeInfo
//	@Router			/types [get]
//	@Security		ApiKeyAuth
func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	types := lo.Map(codec.PixelTypes(), func(pt codec.PixelType, _ int) TypeInfo {
		return describeType(pt)
	})
	sendSuccess(w, types)
}

// handleDecode godoc
//
//	@Summary		Decode a pixel buffer
//	@Description	Reinterpret the request body as packed samples of the given pixel type
//	@Tags			codec
//	@Accept			octet-stream
//	@Produce		json
//	@Param			type	query		string	true	"Pixel type (Byte, Int16, GDT_FLOAT32, ...)"
//	@Success		200		{object}	SamplesResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		422		{object}	map[string]string
//	@Router			/decode [post]
//	@Security		ApiKeyAuth
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	pt, err := pixelTypeParam(r.URL.Query())
	if err != nil {
		sendError(w, err.Error(), statusForError(err))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	samples, err := s.codec.Decode(body, pt)
	s.metrics.RecordCodecOperation("decode", pt, err == nil, samples.Len())
	if err != nil {
		sendError(w, err.Error(), statusForError(err))
		return
	}

	s.debugf("decoded %d bytes as %s into %d samples", len(body), pt, samples.Len())
	sendSuccess(w, samplesResponse(pt, samples, nil))
}

// handleEncode godoc
//
//	@Summary		Encode samples
//	@Description	Pack a JSON array of values into the byte layout of the given pixel type
//	@Tags			codec
//	@Accept			json
//	@Produce		octet-stream
//	@Param			type	query		string			true	"Pixel type"
//	@Param			request	body		ValuesRequest	true	"Values to encode"
//	@Success		200		{string}	byte
//	@Failure		400		{object}	map[string]string
//	@Failure		422		{object}	map[string]string
//	@Router			/encode [post]
//	@Security		ApiKeyAuth
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	pt, err := pixelTypeParam(r.URL.Query())
	if err != nil {
		sendError(w, err.Error(), statusForError(err))
		return
	}

	values, err := decodeValuesRequest(w, r, pt)
	if err != nil {
		sendError(w, err.Error(), statusForError(err))
		return
	}

	data, err := s.codec.Encode(values, pt)
	s.metrics.RecordCodecOperation("encode", pt, err == nil, values.Len())
	if err != nil {
		sendError(w, err.Error(), statusForError(err))
		return
	}

	s.debugf("encoded %d samples as %s into %d bytes", values.Len(), pt, len(data))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("X-Pixel-Type", pt.String())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleCreateDataset godoc
//
//	@Summary		Create a dataset
//	@Description	Create a zero-filled dataset with the given size, band count and pixel type
//	@Tags			datasets
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateDatasetRequest	true	"Dataset shape"
//	@Success		201		{object}	DatasetResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/datasets [post]
//	@Security		ApiKeyAuth
func (s *Server) handleCreateDataset(w http.ResponseWriter, r *http.Request) {
	var req CreateDatasetRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}

	pt, err := codec.ParsePixelType(req.Type)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	ds, err := s.store.Create(storage.DatasetSpec{
		XSize:     req.XSize,
		YSize:     req.YSize,
		Bands:     req.Bands,
		PixelType: pt,
	})
	s.metrics.RecordStoreOperation("create", err == nil, time.Since(start))
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to create dataset: %v", err), statusForError(err))
		return
	}

	s.debugf("created dataset %s", ds.Info().ID)
	sendJSON(w, datasetResponse(ds.Info()), http.StatusCreated)
}

// handleListDatasets godoc
//
//	@Summary		List datasets
//	@Description	List the metadata of every stored dataset
//	@Tags			datasets
//	@Produce		json
//	@Success		200	{array}		DatasetResponse
//	@Failure		500	{object}	map[string]string
//	@Router			/datasets [get]
//	@Security		ApiKeyAuth
func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	infos, err := s.store.List()
	s.metrics.RecordStoreOperation("list", err == nil, time.Since(start))
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to list datasets: %v", err), statusForError(err))
		return
	}

	s.metrics.UpdateStoreStats(len(infos))
	sendSuccess(w, lo.Map(infos, func(info storage.DatasetInfo, _ int) DatasetResponse {
		return datasetResponse(info)
	}))
}

// handleGetDataset godoc
//
//	@Summary		Get a dataset
//	@Description	Get the metadata of one dataset
//	@Tags			datasets
//	@Produce		json
//	@Param			id	path		string	true	"Dataset ID"
//	@Success		200	{object}	DatasetResponse
//	@Failure		404	{object}	map[string]string
//	@Router			/datasets/{id} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.openDataset(w, r)
	if !ok {
		return
	}
	sendSuccess(w, datasetResponse(ds.Info()))
}

// handleDeleteDataset godoc
//
//	@Summary		Delete a dataset
//	@Description	Remove a dataset and all of its pixels
//	@Tags			datasets
//	@Produce		json
//	@Param			id	path		string	true	"Dataset ID"
//	@Success		200	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Router			/datasets/{id} [delete]
//	@Security		ApiKeyAuth
func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	start := time.Now()
	err := s.store.Drop(id)
	s.metrics.RecordStoreOperation("drop", err == nil, time.Since(start))
	s.forgetReader(id)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to delete dataset: %v", err), statusForError(err))
		return
	}

	s.debugf("dropped dataset %s", id)
	sendSuccess(w, map[string]string{"message": "Dataset deleted successfully"})
}

// handleReadBand godoc
//
//	@Summary		Read a band region
//	@Description	Read a region of a band and decode it. The region defaults to the full extent.
//	@Tags			bands
//	@Produce		json
//	@Param			id		path		string	true	"Dataset ID"
//	@Param			band	path		int		true	"Band index (1-based)"
//	@Param			x		query		int		false	"Region x offset"
//	@Param			y		query		int		false	"Region y offset"
//	@Param			w		query		int		false	"Region width"
//	@Param			h		query		int		false	"Region height"
//	@Success		200		{object}	SamplesResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Failure		422		{object}	map[string]string
//	@Router			/datasets/{id}/bands/{band} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleReadBand(w http.ResponseWriter, r *http.Request) {
	reader, ds, ok := s.openReader(w, r)
	if !ok {
		return
	}
	band, region, err := bandAndRegion(r, ds)
	if err != nil {
		sendError(w, err.Error(), statusForError(err))
		return
	}

	pt := ds.Info().PixelType

	start := time.Now()
	samples, err := reader.Read(r.Context(), band, region)
	s.metrics.RecordStoreOperation("read_region", err == nil, time.Since(start))
	s.metrics.RecordCodecOperation("decode", pt, err == nil, samples.Len())
	if err != nil {
		sendError(w, err.Error(), statusForError(err))
		return
	}

	sendSuccess(w, samplesResponse(pt, samples, &region))
}

// handleWriteBand godoc
//
//	@Summary		Write a band region
//	@Description	Encode values and write them to a region of a band. The region defaults to the full extent.
//	@Tags			bands
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Dataset ID"
//	@Param			band	path		int				true	"Band index (1-based)"
//	@Param			request	body		ValuesRequest	true	"Values in row-major order"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Failure		422		{object}	map[string]string
//	@Router			/datasets/{id}/bands/{band} [put]
//	@Security		ApiKeyAuth
func (s *Server) handleWriteBand(w http.ResponseWriter, r *http.Request) {
	reader, ds, ok := s.openReader(w, r)
	if !ok {
		return
	}
	band, region, err := bandAndRegion(r, ds)
	if err != nil {
		sendError(w, err.Error(), statusForError(err))
		return
	}

	pt := ds.Info().PixelType
	values, err := decodeValuesRequest(w, r, pt)
	if err != nil {
		sendError(w, err.Error(), statusForError(err))
		return
	}

	start := time.Now()
	err = reader.Write(r.Context(), band, region, values)
	s.metrics.RecordStoreOperation("write_region", err == nil, time.Since(start))
	s.metrics.RecordCodecOperation("encode", pt, err == nil, values.Len())
	if err != nil {
		sendError(w, err.Error(), statusForError(err))
		return
	}

	s.debugf("wrote %d samples to dataset %s band %d region %s", values.Len(), ds.Info().ID, band, region)
	sendSuccess(w, map[string]interface{}{
		"message": "Band region written successfully",
		"count":   values.Len(),
		"region":  region,
	})
}

// refreshStoreStats updates the dataset gauge from the store
func (s *Server) refreshStoreStats() {
	infos, err := s.store.List()
	if err != nil {
		log.Printf("Failed to refresh store metrics: %v", err)
		return
	}
	s.metrics.UpdateStoreStats(len(infos))
}

// startMetricsUpdater periodically updates band store metrics until done is closed
func (s *Server) startMetricsUpdater(done <-chan struct{}) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	s.refreshStoreStats()
	for {
		select {
		case <-ticker.C:
			s.refreshStoreStats()
		case <-done:
			return
		}
	}
}

func (s *Server) openDataset(w http.ResponseWriter, r *http.Request) (*storage.StoredDataset, bool) {
	id := chi.URLParam(r, "id")

	start := time.Now()
	ds, err := s.store.Open(id)
	s.metrics.RecordStoreOperation("open", err == nil, time.Since(start))
	if err != nil {
		sendError(w, err.Error(), statusForError(err))
		return nil, false
	}
	return ds, true
}

// openReader returns the cached Reader for the dataset in the URL, opening
// the dataset on first use.
func (s *Server) openReader(w http.ResponseWriter, r *http.Request) (*raster.Reader, *storage.StoredDataset, bool) {
	id := chi.URLParam(r, "id")

	s.readersMu.Lock()
	reader, ok := s.readers[id]
	s.readersMu.Unlock()
	if ok {
		return reader, reader.Dataset().(*storage.StoredDataset), true
	}

	ds, ok := s.openDataset(w, r)
	if !ok {
		return nil, nil, false
	}

	s.readersMu.Lock()
	defer s.readersMu.Unlock()
	if cached, ok := s.readers[id]; ok {
		return cached, cached.Dataset().(*storage.StoredDataset), true
	}
	reader = raster.NewReader(ds, s.codec)
	s.readers[id] = reader
	return reader, ds, true
}

func (s *Server) forgetReader(id string) {
	s.readersMu.Lock()
	delete(s.readers, id)
	s.readersMu.Unlock()
}

// statusForError maps codec, raster and store errors to HTTP status codes.
// Complex pixel types get 422 so clients can tell them apart from bad input.
func statusForError(err error) int {
	switch {
	case errors.Is(err, codec.ErrComplexType):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrDatasetNotFound),
		errors.Is(err, raster.ErrBandNotFound):
		return http.StatusNotFound
	case errors.Is(err, codec.ErrUnsupportedType),
		errors.Is(err, codec.ErrValueKind),
		errors.Is(err, codec.ErrOutOfRange),
		errors.Is(err, raster.ErrOutOfBounds),
		errors.Is(err, raster.ErrSizeMismatch),
		errors.Is(err, storage.ErrInvalidDataset),
		errors.Is(err, errInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func describeType(pt codec.PixelType) TypeInfo {
	info := TypeInfo{Tag: uint8(pt), Name: pt.String()}
	if host, err := codec.HostTypeOf(pt); err == nil {
		info.HostType = host.String()
	}
	if size, err := codec.SampleSize(pt); err == nil {
		info.Size = size
	}
	if layout, err := codec.LayoutOf(pt); err == nil {
		info.Width = layout.Width
		info.Kind = layout.Kind.String()
		info.Codable = true
	}
	return info
}

func datasetResponse(info storage.DatasetInfo) DatasetResponse {
	resp := DatasetResponse{
		ID:      info.ID,
		XSize:   info.XSize,
		YSize:   info.YSize,
		Bands:   info.Bands,
		Type:    info.PixelType.String(),
		Created: info.Created(),
	}
	if host, err := codec.HostTypeOf(info.PixelType); err == nil {
		resp.HostType = host.String()
	}
	return resp
}

func samplesResponse(pt codec.PixelType, samples codec.Samples, region *raster.Region) SamplesResponse {
	resp := SamplesResponse{
		Type:   pt.String(),
		Count:  samples.Len(),
		Region: region,
		Values: jsonValues(samples),
	}
	if host, err := codec.HostTypeOf(pt); err == nil {
		resp.HostType = host.String()
	}
	return resp
}

// jsonValues boxes samples for encoding/json, spelling non-finite reals as
// strings ("NaN", "+Inf", "-Inf").
func jsonValues(samples codec.Samples) []interface{} {
	values := samples.Values()
	for i, v := range values {
		if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			values[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
	}
	return values
}

func pixelTypeParam(q url.Values) (codec.PixelType, error) {
	name := q.Get("type")
	if name == "" {
		return codec.Unknown, fmt.Errorf("%w: type query parameter is required", errInvalidRequest)
	}
	return codec.ParsePixelType(name)
}

func bandAndRegion(r *http.Request, ds raster.Dataset) (int, raster.Region, error) {
	band, err := strconv.Atoi(chi.URLParam(r, "band"))
	if err != nil {
		return 0, raster.Region{}, fmt.Errorf("%w: band must be an integer", errInvalidRequest)
	}
	region, err := parseRegion(r.URL.Query(), ds.XSize(), ds.YSize())
	if err != nil {
		return 0, raster.Region{}, err
	}
	return band, region, nil
}

// parseRegion reads x, y, w and h from the query. Width and height default to
// the rest of the raster from the offset.
func parseRegion(q url.Values, xsize, ysize int) (raster.Region, error) {
	get := func(name string, def int) (int, error) {
		v := q.Get(name)
		if v == "" {
			return def, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q is not an integer", errInvalidRequest, name, v)
		}
		return n, nil
	}

	var region raster.Region
	var err error
	if region.X, err = get("x", 0); err != nil {
		return region, err
	}
	if region.Y, err = get("y", 0); err != nil {
		return region, err
	}
	if region.W, err = get("w", xsize-region.X); err != nil {
		return region, err
	}
	if region.H, err = get("h", ysize-region.Y); err != nil {
		return region, err
	}
	return region, nil
}

func decodeValuesRequest(w http.ResponseWriter, r *http.Request, pt codec.PixelType) (codec.Samples, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	var req ValuesRequest
	if err := dec.Decode(&req); err != nil {
		return codec.Samples{}, fmt.Errorf("%w: invalid JSON in request body", errInvalidRequest)
	}
	return samplesFromValues(req.Values, pt)
}

// samplesFromValues converts JSON values into samples for pt. Integral numbers
// become integer samples for integer layouts; anything else becomes real
// samples, which the codec rejects for integer layouts.
func samplesFromValues(values []interface{}, pt codec.PixelType) (codec.Samples, error) {
	ints := make([]int64, 0, len(values))
	reals := make([]float64, 0, len(values))
	integral := true

	for i, v := range values {
		switch n := v.(type) {
		case json.Number:
			if integral {
				if iv, err := n.Int64(); err == nil {
					ints = append(ints, iv)
				} else {
					integral = false
				}
			}
			f, err := n.Float64()
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return codec.Samples{}, fmt.Errorf("%w: value %d: %v", errInvalidRequest, i, err)
			}
			reals = append(reals, f)
		case string:
			f, err := strconv.ParseFloat(n, 64)
			if err != nil {
				return codec.Samples{}, fmt.Errorf("%w: value %d: %q is not a number", errInvalidRequest, i, n)
			}
			integral = false
			reals = append(reals, f)
		default:
			return codec.Samples{}, fmt.Errorf("%w: value %d is not a number", errInvalidRequest, i)
		}
	}

	layout, err := codec.LayoutOf(pt)
	wantInts := err != nil || layout.IsInteger()
	if wantInts && integral {
		return codec.IntSamples(ints...), nil
	}
	return codec.RealSamples(reals...), nil
}
