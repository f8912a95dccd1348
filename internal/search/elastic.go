package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"

	"toytopia_back_end/internal/database"
	"toytopia_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const toysIndex = "toys"

//
// --- INDEXATION DANS ELASTICSEARCH ---
//

// IndexCatalog indexe le catalogue statique au démarrage. Best effort :
// sans Elasticsearch la recherche avancée retombe sur le filtre en mémoire.
func IndexCatalog(toys []models.Toy) {
	if database.Elastic == nil {
		log.Println("⚠️ Elastic non initialisé, catalogue non indexé")
		return
	}

	indexed := 0
	for _, toy := range toys {
		if err := indexToy(toy); err != nil {
			log.Printf("⚠️ Jouet %s non indexé: %v", toy.ID, err)
			continue
		}
		indexed++
	}
	log.Printf("✅ %d/%d jouets indexés dans Elasticsearch", indexed, len(toys))
}

func indexToy(toy models.Toy) error {
	data, err := json.Marshal(toy)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      toysIndex,
		DocumentID: toy.ID,
		Body:       bytes.NewReader(data),
	}

	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.New(res.String())
	}
	return nil
}

//
// --- RECHERCHE DANS ELASTICSEARCH ---
//

// Available indique si le client Elasticsearch est utilisable
func Available() bool {
	return database.Elastic != nil
}

// MaxWindow est la fenêtre de résultats maximale demandée à Elasticsearch
// (limite par défaut d'index.max_result_window)
const MaxWindow = 10000

// SearchToys cherche dans le nom et la description, avec restriction de
// catégorie optionnelle. La pagination est déléguée à Elasticsearch via
// from/size ; le total renvoyé couvre l'ensemble des correspondances.
func SearchToys(query, category string, from, size int) ([]models.Toy, int, error) {
	if database.Elastic == nil {
		return nil, 0, errors.New("client Elasticsearch non initialisé")
	}
	if size <= 0 {
		size = 50
	}
	if size > MaxWindow {
		size = MaxWindow
	}
	if from < 0 {
		from = 0
	}

	must := []map[string]interface{}{}
	if query != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name^2", "description"},
			},
		})
	}
	if category != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{
				"category.keyword": category,
			},
		})
	}

	q := map[string]interface{}{
		"from":             from,
		"size":             size,
		"track_total_hits": true,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": must,
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, 0, err
	}

	res, err := database.Elastic.Search(
		database.Elastic.Search.WithContext(context.Background()),
		database.Elastic.Search.WithIndex(toysIndex),
		database.Elastic.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, errors.New(res.String())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Toy `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, err
	}

	toys := make([]models.Toy, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		toys = append(toys, hit.Source)
	}
	return toys, parsed.Hits.Total.Value, nil
}
