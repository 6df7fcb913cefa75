package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/EchoNin9/orangewhip.surf/internal/infrastructure/ai"
	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

// Dispatcher schedules async thumbnail work. Satisfied by queue.Dispatcher.
type Dispatcher interface {
	ScheduleThumbnail(ctx context.Context, mediaID, s3Key string)
}

type Service struct {
	store         store.Store
	storage       ObjectStorage
	resolver      *Resolver
	dispatcher    Dispatcher
	summarizer    ai.Summarizer
	maxFiles      int
	importMaxSize int64
	importTimeout time.Duration
	httpClient    *http.Client
}

func NewService(st store.Store, storage ObjectStorage, resolver *Resolver, dispatcher Dispatcher, summarizer ai.Summarizer, maxFiles int, importMaxSize int64) *Service {
	if maxFiles <= 0 {
		maxFiles = MaxFiles
	}
	return &Service{
		store:         st,
		storage:       storage,
		resolver:      resolver,
		dispatcher:    dispatcher,
		summarizer:    summarizer,
		maxFiles:      maxFiles,
		importMaxSize: importMaxSize,
		importTimeout: 30 * time.Second,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

// List returns public items, filtered by kind, category ids and a
// substring matched against title and AI summary. Kind and visibility
// go through the store's equality filters; the rest is applied here.
func (s *Service) List(ctx context.Context, kind, q string, categoryIDs []string) ([]Enriched, error) {
	filters := map[string]interface{}{"public": true}
	if kind != "" {
		filters["mediaType"] = kind
	}

	items, err := s.store.QueryByType(ctx, EntityType, filters)
	if err != nil {
		return nil, err
	}
	return s.resolver.EnrichMany(ctx, s.narrow(items, q, categoryIDs)), nil
}

// ListAll returns every item regardless of visibility.
func (s *Service) ListAll(ctx context.Context, kind, q string, categoryIDs []string) ([]Enriched, error) {
	filters := map[string]interface{}{}
	if kind != "" {
		filters["mediaType"] = kind
	}

	items, err := s.store.QueryByType(ctx, EntityType, filters)
	if err != nil {
		return nil, err
	}
	return s.resolver.EnrichMany(ctx, s.narrow(items, q, categoryIDs)), nil
}

// GetByID returns one item. Private items are only visible to band
// members and up; everyone else gets not-found, not forbidden, so the
// existence of hidden items never leaks.
func (s *Service) GetByID(ctx context.Context, id string, trusted bool) (*Enriched, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.Public && !trusted {
		return nil, ErrNotFound
	}
	e := s.resolver.Enrich(ctx, *m)
	return &e, nil
}

// Create stores a new record and kicks off thumbnail generation.
func (s *Service) Create(ctx context.Context, req CreateReq, addedBy string) (*Media, error) {
	if len(req.Files) > s.maxFiles {
		return nil, ErrTooManyFiles
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m := Media{
		ID:         uuid.New().String(),
		Title:      req.Title,
		MediaType:  req.MediaType,
		Format:     req.Format,
		Dimensions: req.Dimensions,
		Filesize:   req.Filesize,
		S3Key:      req.S3Key,
		Files:      req.Files,
		Categories: req.Categories,
		Public:     req.Public == nil || *req.Public,
		AddedBy:    addedBy,
		AddedAt:    nowISO(),
	}
	m.normalizeCategories()

	// Primary key follows the first auxiliary file when not given directly.
	if m.S3Key == "" && len(m.Files) > 0 {
		m.S3Key = m.Files[0].S3Key
	}

	m.ThumbnailKey = pickThumbnailKey(req.ThumbnailKey, m.Files)

	m.AISummary = s.summarizer.Summarize(ctx, m.Title, m.MediaType, filenamesOf(m.Files))

	item, err := m.toItem()
	if err != nil {
		return nil, fmt.Errorf("encode media: %w", err)
	}
	if err := s.store.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("store media: %w", err)
	}

	if m.S3Key != "" {
		s.dispatcher.ScheduleThumbnail(ctx, m.ID, m.S3Key)
	}

	return &m, nil
}

// Update applies the named fields. Files removed by the new list get
// their storage objects deleted, best-effort.
func (s *Service) Update(ctx context.Context, req UpdateReq) (*Media, error) {
	if req.ID == "" {
		return nil, ErrMissingID
	}
	m, err := s.load(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.MediaType != nil {
		m.MediaType = *req.MediaType
	}
	if req.Format != nil {
		m.Format = *req.Format
	}
	if req.Dimensions != nil {
		m.Dimensions = *req.Dimensions
	}
	if req.Filesize != nil {
		m.Filesize = *req.Filesize
	}
	if req.Public != nil {
		m.Public = *req.Public
	}
	if req.Categories != nil {
		m.Categories = *req.Categories
	}
	m.normalizeCategories()

	if req.ThumbnailKey != nil {
		m.ThumbnailKey = pickThumbnailKey(*req.ThumbnailKey, m.Files)
	}

	if req.Files != nil {
		newFiles := *req.Files
		if len(newFiles) > s.maxFiles {
			return nil, ErrTooManyFiles
		}
		s.deleteRemovedFiles(ctx, m.Files, newFiles)
		m.Files = newFiles
		if len(newFiles) > 0 {
			m.S3Key = newFiles[0].S3Key
		} else {
			m.S3Key = ""
		}
	}

	item, err := m.toItem()
	if err != nil {
		return nil, fmt.Errorf("encode media: %w", err)
	}
	if err := s.store.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("store media: %w", err)
	}
	return m, nil
}

// Delete removes the record and its storage objects. Storage deletions
// are best-effort: the record goes away even when some objects linger.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	m, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(m.Files)+2)
	if m.S3Key != "" {
		keys = append(keys, m.S3Key)
	}
	if m.ThumbnailKey != "" {
		keys = append(keys, m.ThumbnailKey)
	}
	for _, f := range m.Files {
		if f.S3Key != "" {
			keys = append(keys, f.S3Key)
		}
	}
	if keys = dedupe(keys); len(keys) > 0 {
		if err := s.storage.DeleteMany(ctx, keys); err != nil {
			log.Warn().Err(err).Str("media_id", id).Msg("[MEDIA] Storage cleanup incomplete")
		}
	}

	return s.store.Delete(ctx, pkFor(id), store.MetaSK)
}

// UploadURL issues a presigned slot for a new primary or auxiliary file.
func (s *Service) UploadURL(ctx context.Context, req UploadURLReq) (map[string]string, error) {
	kind := req.MediaType
	if kind == "" {
		kind = KindImage
	}
	mediaID := req.MediaID
	if mediaID == "" {
		mediaID = uuid.New().String()
	}
	key := fmt.Sprintf("media/%s/%s/%s.%s", kind, mediaID, uuid.New().String(), extOf(req.Filename))

	u, err := s.storage.PresignedPutURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	return map[string]string{"uploadUrl": u, "key": key, "mediaId": mediaID}, nil
}

// ThumbnailUploadURL issues a presigned slot under the thumbnails
// namespace, which is always thumbnail-eligible.
func (s *Service) ThumbnailUploadURL(ctx context.Context, mediaID, filename string) (map[string]string, error) {
	if mediaID == "" {
		mediaID = uuid.New().String()
	}
	key := fmt.Sprintf("thumbnails/%s/%s.%s", mediaID, uuid.New().String(), extOf(filename))

	u, err := s.storage.PresignedPutURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("presign thumbnail upload: %w", err)
	}
	return map[string]string{"uploadUrl": u, "key": key, "mediaId": mediaID}, nil
}

// ImportFromURL fetches an external file, stores it, and creates the
// record the same way a direct upload would.
func (s *Service) ImportFromURL(ctx context.Context, req ImportReq, addedBy string) (*Media, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFailed, err)
	}
	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: source returned status %d", ErrImportFailed, resp.StatusCode)
	}
	if resp.ContentLength > s.importMaxSize {
		return nil, ErrImportTooBig
	}

	// Read one byte past the cap to distinguish at-limit from over-limit.
	data, err := io.ReadAll(io.LimitReader(resp.Body, s.importMaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFailed, err)
	}
	if int64(len(data)) > s.importMaxSize {
		return nil, ErrImportTooBig
	}

	kind := req.MediaType
	if kind == "" {
		kind = kindFromContentType(resp.Header.Get("Content-Type"))
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Imported media"
	}
	mediaID := uuid.New().String()
	filename := filenameFromURL(req.URL)
	key := fmt.Sprintf("media/%s/%s/%s", kind, mediaID, filename)

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := s.storage.Upload(ctx, key, data, contentType); err != nil {
		return nil, fmt.Errorf("store imported file: %w", err)
	}

	m := Media{
		ID:         mediaID,
		Title:      title,
		MediaType:  kind,
		Filesize:   int64(len(data)),
		S3Key:      key,
		Categories: req.Categories,
		Public:     req.Public == nil || *req.Public,
		AddedBy:    addedBy,
		AddedAt:    nowISO(),
	}
	m.normalizeCategories()
	m.AISummary = s.summarizer.Summarize(ctx, m.Title, m.MediaType, []string{filename})

	item, err := m.toItem()
	if err != nil {
		return nil, fmt.Errorf("encode media: %w", err)
	}
	if err := s.store.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("store media: %w", err)
	}

	s.dispatcher.ScheduleThumbnail(ctx, m.ID, m.S3Key)
	return &m, nil
}

// SetThumbnailKey records a generated thumbnail, used by the worker and
// the transcode completion path. Keys are checked against the same
// eligibility predicate the read side applies, so a stored reference is
// always displayable.
func (s *Service) SetThumbnailKey(ctx context.Context, mediaID, thumbnailKey string) error {
	if !IsThumbnailEligible(thumbnailKey) {
		return fmt.Errorf("%w: %q", ErrBadThumbnailKey, thumbnailKey)
	}
	m, err := s.load(ctx, mediaID)
	if err != nil {
		return err
	}
	m.ThumbnailKey = thumbnailKey

	item, err := m.toItem()
	if err != nil {
		return fmt.Errorf("encode media: %w", err)
	}
	return s.store.Put(ctx, item)
}

// Load fetches the raw record, for callers outside the HTTP surface.
func (s *Service) Load(ctx context.Context, id string) (*Media, error) {
	return s.load(ctx, id)
}

func (s *Service) load(ctx context.Context, id string) (*Media, error) {
	item, err := s.store.Get(ctx, pkFor(id), store.MetaSK)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	var m Media
	if err := item.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode media %s: %w", id, err)
	}
	return &m, nil
}

func (s *Service) narrow(items []store.Item, q string, categoryIDs []string) []Media {
	q = strings.ToLower(strings.TrimSpace(q))

	out := make([]Media, 0, len(items))
	for _, it := range items {
		var m Media
		if err := it.Decode(&m); err != nil {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(m.Title), q) &&
			!strings.Contains(strings.ToLower(m.AISummary), q) {
			continue
		}
		if len(categoryIDs) > 0 && !hasAnyCategory(m.Categories, categoryIDs) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (s *Service) deleteRemovedFiles(ctx context.Context, prev, next []File) {
	kept := make(map[string]bool, len(next))
	for _, f := range next {
		kept[f.S3Key] = true
	}
	for _, f := range prev {
		if f.S3Key == "" || kept[f.S3Key] {
			continue
		}
		if err := s.storage.Delete(ctx, f.S3Key); err != nil {
			log.Warn().Err(err).Str("key", f.S3Key).Msg("[MEDIA] Removed file cleanup failed")
		}
	}
}

// pickThumbnailKey discards non-image thumbnail references and falls
// back to the first image-capable auxiliary file.
func pickThumbnailKey(requested string, files []File) string {
	if IsThumbnailEligible(requested) {
		return requested
	}
	for _, f := range files {
		if strings.HasPrefix(f.ContentType, "image/") || IsThumbnailEligible(f.S3Key) {
			return f.S3Key
		}
	}
	return ""
}

func hasAnyCategory(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, c := range have {
		set[c] = true
	}
	for _, c := range want {
		if set[c] {
			return true
		}
	}
	return false
}

func filenamesOf(files []File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if f.Filename != "" {
			out = append(out, f.Filename)
		}
	}
	return out
}

func dedupe(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

func kindFromContentType(ct string) string {
	switch {
	case strings.HasPrefix(ct, "image/"):
		return KindImage
	case strings.HasPrefix(ct, "video/"):
		return KindVideo
	case strings.HasPrefix(ct, "audio/"):
		return KindAudio
	default:
		return KindImage
	}
}

func filenameFromURL(rawURL string) string {
	trimmed := strings.SplitN(rawURL, "?", 2)[0]
	parts := strings.Split(strings.TrimRight(trimmed, "/"), "/")
	name := parts[len(parts)-1]
	if name == "" || !strings.Contains(name, ".") {
		return uuid.New().String() + ".bin"
	}
	return name
}
