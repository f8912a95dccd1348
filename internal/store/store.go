package store

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"toytopia_back_end/internal/models"
)

// Disposition du magasin durable : deux clés plates, chacune contenant
// le snapshot JSON complet de sa collection, tous utilisateurs confondus.
const (
	FavoritesKey = "favorites"
	ReviewsKey   = "reviews"

	// Canaux de notification de changement externe
	FavoritesChannel = "sync:favorites"
	ReviewsChannel   = "sync:reviews"
)

var (
	ErrRatingOutOfRange = errors.New("la note doit être comprise entre 1 et 5")
	ErrCommentTooLong   = errors.New("le commentaire dépasse 500 caractères")
)

// CollectionStore gère les collections persistées par utilisateur
// (favoris et avis). Chaque écriture relit le snapshot complet, le
// modifie puis le réécrit en entier, et publie ensuite une notification
// de changement. Les écritures du même processus sont sérialisées par
// mu ; dernier écrivain gagnant ne s'applique qu'entre processus
// (granularité du snapshot).
//
// Le store est construit explicitement avec son KV : pas de singleton.
type CollectionStore struct {
	kv KV

	// mu sérialise les cycles lecture-modification-écriture sur le
	// snapshot durable et protège les vues en mémoire
	mu        sync.Mutex
	favorites map[string][]models.FavoriteEntry // vues en mémoire par userId
	reviews   map[string][]models.Review

	lastReviewNano int64 // garantit des identifiants d'avis strictement croissants
}

func New(kv KV) *CollectionStore {
	return &CollectionStore{
		kv:        kv,
		favorites: make(map[string][]models.FavoriteEntry),
		reviews:   make(map[string][]models.Review),
	}
}

// readFavorites relit le snapshot durable complet. Un snapshot illisible
// vaut collection vide (signalé dans les logs, jamais remonté en erreur) ;
// les entrées malformées sont écartées une à une.
func (s *CollectionStore) readFavorites(ctx context.Context) []models.FavoriteEntry {
	raw, err := s.kv.Get(ctx, FavoritesKey)
	if err != nil {
		log.Printf("⚠️ Erreur lecture favoris: %v", err)
		return nil
	}
	if raw == "" {
		return nil
	}

	var entries []models.FavoriteEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Printf("⚠️ Snapshot favoris illisible, considéré vide: %v", err)
		return nil
	}

	valid := entries[:0]
	for _, e := range entries {
		if e.Valid() {
			valid = append(valid, e)
		}
	}
	return valid
}

func (s *CollectionStore) writeFavorites(ctx context.Context, entries []models.FavoriteEntry) error {
	if entries == nil {
		entries = []models.FavoriteEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, FavoritesKey, string(data)); err != nil {
		return err
	}
	if err := s.kv.Publish(ctx, FavoritesChannel, "updated"); err != nil {
		log.Printf("⚠️ Notification favoris non publiée: %v", err)
	}
	return nil
}

func (s *CollectionStore) readReviews(ctx context.Context) []models.Review {
	raw, err := s.kv.Get(ctx, ReviewsKey)
	if err != nil {
		log.Printf("⚠️ Erreur lecture avis: %v", err)
		return nil
	}
	if raw == "" {
		return nil
	}

	var reviews []models.Review
	if err := json.Unmarshal([]byte(raw), &reviews); err != nil {
		log.Printf("⚠️ Snapshot avis illisible, considéré vide: %v", err)
		return nil
	}

	valid := reviews[:0]
	for _, r := range reviews {
		if r.Valid() {
			valid = append(valid, r)
		}
	}
	return valid
}

func (s *CollectionStore) writeReviews(ctx context.Context, reviews []models.Review) error {
	if reviews == nil {
		reviews = []models.Review{}
	}
	data, err := json.Marshal(reviews)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, ReviewsKey, string(data)); err != nil {
		return err
	}
	if err := s.kv.Publish(ctx, ReviewsChannel, "updated"); err != nil {
		log.Printf("⚠️ Notification avis non publiée: %v", err)
	}
	return nil
}

// Resync recalcule les vues en mémoire d'un utilisateur depuis le
// snapshot durable. Appelé quand une notification de changement externe
// arrive (écriture depuis un autre contexte d'exécution).
func (s *CollectionStore) Resync(ctx context.Context, userID string) {
	if userID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.favorites[userID] = filterFavorites(s.readFavorites(ctx), userID)
	s.reviews[userID] = filterReviews(s.readReviews(ctx), userID)
}

// ClearView oublie les vues en mémoire d'un utilisateur (déconnexion)
func (s *CollectionStore) ClearView(userID string) {
	s.mu.Lock()
	delete(s.favorites, userID)
	delete(s.reviews, userID)
	s.mu.Unlock()
}

// StartSync écoute les notifications de changement des deux collections
// et resynchronise les vues chargées. Retourne une fonction d'arrêt.
func (s *CollectionStore) StartSync(ctx context.Context) func() {
	favCh, stopFav := s.kv.Subscribe(ctx, FavoritesChannel)
	revCh, stopRev := s.kv.Subscribe(ctx, ReviewsChannel)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case _, ok := <-favCh:
				if !ok {
					return
				}
				s.resyncLoadedViews(ctx)
			case _, ok := <-revCh:
				if !ok {
					return
				}
				s.resyncLoadedViews(ctx)
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		close(done)
		stopFav()
		stopRev()
	}
}

// SubscribeFavorites expose le flux de notifications de changement des
// favoris, pour la synchronisation websocket entre clients
func (s *CollectionStore) SubscribeFavorites(ctx context.Context) (<-chan string, func()) {
	return s.kv.Subscribe(ctx, FavoritesChannel)
}

func (s *CollectionStore) resyncLoadedViews(ctx context.Context) {
	s.mu.Lock()
	users := make([]string, 0, len(s.favorites)+len(s.reviews))
	for userID := range s.favorites {
		users = append(users, userID)
	}
	for userID := range s.reviews {
		if _, seen := s.favorites[userID]; !seen {
			users = append(users, userID)
		}
	}
	s.mu.Unlock()

	for _, userID := range users {
		s.Resync(ctx, userID)
	}
}

func filterFavorites(entries []models.FavoriteEntry, userID string) []models.FavoriteEntry {
	out := make([]models.FavoriteEntry, 0, len(entries))
	for _, e := range entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

func filterReviews(reviews []models.Review, userID string) []models.Review {
	out := make([]models.Review, 0, len(reviews))
	for _, r := range reviews {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}
