package repositories

import (
	"context"
	"strings"

	"contacts-backend/config"
	"contacts-backend/db/models"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const contactsIndex = "contacts"

type contactDocument struct {
	ID             string   `json:"id"`
	OrganizationID string   `json:"organization_id"`
	Status         string   `json:"status"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	FullName       string   `json:"full_name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Company        string   `json:"company"`
	Tags           []string `json:"tags"`
}

func toContactDocument(contact models.Contact) contactDocument {
	return contactDocument{
		ID:             contact.ID.String(),
		OrganizationID: contact.OrganizationID.String(),
		Status:         string(contact.Status),
		FirstName:      contact.FirstName,
		LastName:       contact.LastName,
		FullName:       strings.TrimSpace(contact.FirstName + " " + contact.LastName),
		Email:          contact.Email,
		Phone:          contact.Phone,
		Company:        contact.Company,
		Tags:           contact.Tags,
	}
}

// ContactIndexMapping keeps organization and status as exact keywords so
// filters never match across tenants by accident.
func ContactIndexMapping() mapping.IndexMapping {
	keywordField := bleve.NewTextFieldMapping()
	keywordField.Analyzer = keyword.Name

	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = standard.Name

	contactMapping := bleve.NewDocumentMapping()
	contactMapping.AddFieldMappingsAt("id", keywordField)
	contactMapping.AddFieldMappingsAt("organization_id", keywordField)
	contactMapping.AddFieldMappingsAt("status", keywordField)
	for _, field := range []string{"first_name", "last_name", "full_name", "email", "phone", "company", "tags"} {
		contactMapping.AddFieldMappingsAt(field, textField)
	}

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = contactMapping
	return indexMapping
}

func (r *BleveRepository) IndexSingleContact(contact models.Contact) error {
	if err := r.indexer.IndexDocument(contactsIndex, contact.ID.String(), toContactDocument(contact)); err != nil {
		config.Logger.Error("Failed to index contact into Bleve", zap.Error(err), zap.String("contact_id", contact.ID.String()))
		return err
	}
	return nil
}

func (r *BleveRepository) IndexContacts(contacts []models.Contact) error {
	if len(contacts) == 0 {
		return nil
	}

	docs := make(map[string]interface{}, len(contacts))
	for _, contact := range contacts {
		docs[contact.ID.String()] = toContactDocument(contact)
	}

	if err := r.indexer.BulkIndexDocuments(contactsIndex, docs); err != nil {
		config.Logger.Error("Failed to bulk index contacts into Bleve", zap.Error(err))
		return err
	}
	return nil
}

func (r *BleveRepository) DeleteContact(contactID uuid.UUID) error {
	return r.indexer.DeleteDocument(contactsIndex, contactID.String())
}

// SearchContacts returns matching contact IDs of one organization, best
// match first, along with the total hit count.
func (r *BleveRepository) SearchContacts(ctx context.Context, organizationID uuid.UUID, queryString string, limit, offset int) ([]uuid.UUID, uint64, error) {
	queryString = strings.TrimSpace(strings.ToLower(queryString))

	orgQuery := bleve.NewTermQuery(organizationID.String())
	orgQuery.SetField("organization_id")

	deletedQuery := bleve.NewTermQuery(string(models.ContactDeleted))
	deletedQuery.SetField("status")

	finalQuery := bleve.NewBooleanQuery()
	finalQuery.AddMust(orgQuery, contactTextQuery(queryString))
	finalQuery.AddMustNot(deletedQuery)

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	result, err := r.indexer.SearchIndex(contactsIndex, finalQuery, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, 0, len(result.Hits))
	for _, hit := range result.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			config.Logger.Warn("Skipping contact hit with malformed id", zap.String("id", hit.ID))
			continue
		}
		ids = append(ids, id)
	}
	return ids, result.Total, nil
}

func contactTextQuery(queryString string) query.Query {
	if queryString == "" {
		return bleve.NewMatchAllQuery()
	}

	// Phrase matches first, then prefixes for type-ahead, then typos
	var strategies []query.Query
	for _, field := range []string{"full_name", "company", "email"} {
		phrase := bleve.NewMatchPhraseQuery(queryString)
		phrase.SetField(field)
		phrase.SetBoost(5.0)
		strategies = append(strategies, phrase)
	}

	match := bleve.NewMatchQuery(queryString)
	match.SetBoost(3.0)
	strategies = append(strategies, match)

	if !strings.ContainsAny(queryString, " \t") {
		for _, field := range []string{"first_name", "last_name", "email", "company", "phone", "tags"} {
			prefix := bleve.NewPrefixQuery(queryString)
			prefix.SetField(field)
			prefix.SetBoost(2.0)
			strategies = append(strategies, prefix)
		}
		for _, field := range []string{"first_name", "last_name", "company"} {
			fuzzy := bleve.NewFuzzyQuery(queryString)
			fuzzy.SetField(field)
			fuzzy.SetFuzziness(1)
			strategies = append(strategies, fuzzy)
		}
	}

	return bleve.NewDisjunctionQuery(strategies...)
}
