package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avolkov/rag-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// DocumentRepository defines the interface for document and chunk persistence
type DocumentRepository interface {
	// CreateWithChunks stores a document and its embedded chunks atomically:
	// either the whole document is indexed or nothing is.
	CreateWithChunks(ctx context.Context, doc *entity.Document, chunks []entity.Chunk, embeddings [][]float32) error
	Get(ctx context.Context, id string) (*entity.Document, error)
	List(ctx context.Context) ([]*entity.Document, error)
	Delete(ctx context.Context, id string) error
	QuerySimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.RetrievedChunk, error)
	Ping(ctx context.Context) error
}

var _ DocumentRepository = &DocumentPostgres{}

// DocumentPostgres implements DocumentRepository on PostgreSQL with pgvector
type DocumentPostgres struct {
	db *pgxpool.Pool
}

func NewDocumentPostgres(db *pgxpool.Pool) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

func (r *DocumentPostgres) CreateWithChunks(
	ctx context.Context, doc *entity.Document, chunks []entity.Chunk, embeddings [][]float32,
) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunk/embedding count mismatch: %d vs %d", len(chunks), len(embeddings))
	}

	docID, err := uuid.Parse(doc.ID)
	if err != nil {
		return fmt.Errorf("invalid document ID: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", entity.ErrStorageFailure, err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	_, err = tx.Exec(ctx,
		`INSERT INTO documents (id, title, description, filename, uploaded_at, embedded_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		docID, doc.Title, doc.Description, doc.Filename, doc.UploadedAt, now,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	for i, chunk := range chunks {
		_, err = tx.Exec(ctx,
			`INSERT INTO chunks (id, document_id, position, content, embedding)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), docID, chunk.Position, chunk.Content, pgvector.NewVector(embeddings[i]),
		)
		if err != nil {
			return fmt.Errorf("insert chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", entity.ErrStorageFailure, err)
	}

	doc.EmbeddedAt = &now
	doc.ChunkCount = len(chunks)

	return nil
}

func (r *DocumentPostgres) Get(ctx context.Context, id string) (*entity.Document, error) {
	docID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: document id %q", entity.ErrInvalidParameter, id)
	}

	row := r.db.QueryRow(ctx,
		`SELECT d.id, d.title, d.description, d.filename, d.uploaded_at, d.embedded_at,
		        (SELECT count(*) FROM chunks c WHERE c.document_id = d.id)
		 FROM documents d WHERE d.id = $1`,
		docID,
	)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

func (r *DocumentPostgres) List(ctx context.Context) ([]*entity.Document, error) {
	rows, err := r.db.Query(ctx,
		`SELECT d.id, d.title, d.description, d.filename, d.uploaded_at, d.embedded_at,
		        (SELECT count(*) FROM chunks c WHERE c.document_id = d.id)
		 FROM documents d ORDER BY d.uploaded_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]*entity.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	docID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: document id %q", entity.ErrInvalidParameter, id)
	}

	// Chunks cascade with the document row
	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, docID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return entity.ErrDocumentNotFound
	}

	return nil
}

// QuerySimilar returns up to limit chunks ordered by cosine distance to the
// query embedding. Fewer chunks than requested is not an error; distance
// ties resolve by document and position so results stay deterministic.
func (r *DocumentPostgres) QuerySimilar(
	ctx context.Context, embedding []float32, limit int,
) ([]*entity.RetrievedChunk, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.document_id, c.position, c.content, c.embedding <=> $1 AS distance
		 FROM chunks c
		 ORDER BY distance, c.document_id, c.position
		 LIMIT $2`,
		pgvector.NewVector(embedding), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query similar chunks: %w", err)
	}
	defer rows.Close()

	results := make([]*entity.RetrievedChunk, 0, limit)
	for rows.Next() {
		var (
			chunkID uuid.UUID
			docID   uuid.UUID
			rc      entity.RetrievedChunk
		)
		if err := rows.Scan(&chunkID, &docID, &rc.Position, &rc.Content, &rc.Distance); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		rc.ID = chunkID.String()
		rc.DocumentID = docID.String()
		results = append(results, &rc)
	}

	return results, rows.Err()
}

func (r *DocumentPostgres) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var (
		id         uuid.UUID
		doc        entity.Document
		embeddedAt *time.Time
	)
	if err := row.Scan(&id, &doc.Title, &doc.Description, &doc.Filename,
		&doc.UploadedAt, &embeddedAt, &doc.ChunkCount); err != nil {
		return nil, err
	}
	doc.ID = id.String()
	doc.EmbeddedAt = embeddedAt
	return &doc, nil
}
