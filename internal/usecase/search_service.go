package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nutrilog/backend/internal/domain"
)

// SearchService resolves products across the three food-data sources in
// priority order: the crowd-sourced shared store, then the open-data barcode
// API. The bundled dataset participates in dataset-backed lookups only; see
// SearchFoodByName. All collaborators are constructor-injected.
type SearchService struct {
	shared  domain.SharedProductRepository
	barcode domain.BarcodeLookup
	dataset domain.DatasetSearcher
	cache   domain.ProductCache
	log     *logrus.Logger
}

// NewSearchService creates an integrated search service.
func NewSearchService(
	shared domain.SharedProductRepository,
	barcode domain.BarcodeLookup,
	dataset domain.DatasetSearcher,
	cache domain.ProductCache,
	log *logrus.Logger,
) *SearchService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SearchService{
		shared:  shared,
		barcode: barcode,
		dataset: dataset,
		cache:   cache,
		log:     log,
	}
}

// SearchProductByBarcode resolves a scanned barcode. Resolution order:
// process cache, shared store, open-data API. An API hit is contributed back
// to the shared store unless a concurrent submission already landed; the
// existence probe and the write are not transactional, so two concurrent
// scans of the same unseen barcode can both submit — accepted, the
// crowd-sourced data tolerates duplicates.
//
// Shared-store failures degrade to the next source. Decode failures from the
// open-data API propagate typed; its other failures degrade to not-found.
func (s *SearchService) SearchProductByBarcode(ctx context.Context, barcode string) (*domain.SharedProduct, error) {
	if barcode == "" {
		return nil, domain.ErrInvalidRequest
	}

	if cached, err := s.cache.Get(ctx, barcode); err == nil {
		return cached, nil
	}

	product, err := s.shared.SearchByBarcode(ctx, barcode)
	switch {
	case err == nil:
		s.annotateTrust(product)
		s.cacheProduct(ctx, barcode, product)
		return product, nil
	case errors.Is(err, domain.ErrProductNotFound):
		// Fall through to the open-data API.
	default:
		s.log.WithField("component", "search").WithError(err).
			Warn("shared store lookup failed; falling back to open-data API")
	}

	product, err = s.barcode.FetchByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, domain.ErrDecodeFailure) {
			return nil, err
		}
		if !errors.Is(err, domain.ErrProductNotFound) {
			s.log.WithField("component", "search").WithError(err).
				Warn("open-data lookup failed")
		}
		return nil, domain.ErrProductNotFound
	}

	s.contributeProduct(ctx, product)
	s.cacheProduct(ctx, barcode, product)
	return product, nil
}

// SearchFoodByName searches foods by name. Only the shared store is queried
// on this path; the bundled dataset is deliberately excluded, matching the
// shipped behavior of the product. Results come back sorted by trust score
// descending.
func (s *SearchService) SearchFoodByName(ctx context.Context, name string) ([]domain.SearchResult, error) {
	if name == "" {
		return nil, domain.ErrInvalidRequest
	}

	products, err := s.shared.SearchByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, nil
		}
		s.log.WithField("component", "search").WithError(err).
			Warn("shared store name search failed")
		return nil, nil
	}

	results := make([]domain.SearchResult, 0, len(products))
	for i := range products {
		results = append(results, domain.SearchResult{Shared: &products[i]})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TrustScore() > results[j].TrustScore()
	})
	return results, nil
}

// SearchBundledFoods searches the on-device dataset, for flows that work
// offline (manual entry suggestions).
func (s *SearchService) SearchBundledFoods(query string) []domain.SearchResult {
	items := s.dataset.Search(query)
	results := make([]domain.SearchResult, 0, len(items))
	for i := range items {
		results = append(results, domain.SearchResult{Local: &items[i]})
	}
	return results
}

// ManualEntryInput is a user-typed product submission.
type ManualEntryInput struct {
	Barcode     string
	Name        string
	Brand       string
	Nutrition   domain.NutritionInfo
	Category    string
	PackageSize string
	Description string
}

// SaveManualEntry submits a user-entered product to the shared store with
// zero counters. Failures propagate so the form can stay open for retry.
func (s *SearchService) SaveManualEntry(ctx context.Context, input ManualEntryInput) (*domain.SharedProduct, error) {
	if input.Name == "" || input.Nutrition.IsEmpty() {
		return nil, domain.ErrInvalidRequest
	}

	userID, err := s.shared.EnsureSession(ctx)
	if err != nil {
		return nil, err
	}

	product := &domain.SharedProduct{
		Barcode:       input.Barcode,
		Name:          input.Name,
		Brand:         input.Brand,
		Nutrition:     input.Nutrition,
		Category:      input.Category,
		PackageSize:   input.PackageSize,
		Description:   input.Description,
		ContributorID: userID,
		CreatedAt:     time.Now(),
	}
	if err := s.shared.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// VerifyProduct records a verification from the current anonymous user.
func (s *SearchService) VerifyProduct(ctx context.Context, productID string) error {
	return s.shared.AddAction(ctx, productID, domain.ActionVerify)
}

// ReportProduct records a data-quality report from the current anonymous user.
func (s *SearchService) ReportProduct(ctx context.Context, productID string) error {
	return s.shared.AddAction(ctx, productID, domain.ActionReport)
}

// contributeProduct writes an API-resolved product back to the shared store,
// best-effort: errors are logged, never surfaced to the scanning user.
func (s *SearchService) contributeProduct(ctx context.Context, product *domain.SharedProduct) {
	exists, err := s.shared.ExistsByBarcode(ctx, product.Barcode)
	if err != nil {
		s.log.WithField("component", "search").WithError(err).
			Warn("auto-contribution existence probe failed")
		return
	}
	if exists {
		return
	}

	if err := s.shared.Create(ctx, product); err != nil {
		s.log.WithField("component", "search").WithError(err).
			Warn("auto-contribution failed")
		return
	}
	s.log.WithFields(logrus.Fields{
		"component": "search",
		"barcode":   product.Barcode,
	}).Info("contributed open-data product to shared store")
}

func (s *SearchService) annotateTrust(product *domain.SharedProduct) {
	if product.Description == "" {
		product.Description = product.TrustDescription()
	}
}

func (s *SearchService) cacheProduct(ctx context.Context, barcode string, product *domain.SharedProduct) {
	if err := s.cache.Set(ctx, barcode, product); err != nil {
		s.log.WithField("component", "search").WithError(err).Debug("cache store failed")
	}
}
