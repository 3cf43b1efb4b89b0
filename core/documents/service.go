// ABOUTME: Documents service manages each user's nested Markdown document tree
// ABOUTME: Every change loads the tree, edits it in memory and writes it back whole

package documents

import (
	"context"
	"strings"
	"sync"

	"paperread-app/core/domain"
	coreerrors "paperread-app/core/errors"
	"paperread-app/core/interfaces"

	"github.com/google/uuid"
)

const (
	// DocIcon marks documents created by users
	DocIcon = "📄"
	// WelcomeID is the id of the document a new tree starts with
	WelcomeID = "doc1"

	welcomeLabel   = "欢迎使用"
	welcomeIcon    = "📘"
	welcomeContent = `# 欢迎使用文档管理系统

## 功能特性

- **目录树结构** 支持多级目录组织
- **Markdown 编辑** 保存后立即查看渲染效果

## 使用指南

1. 创建根文档
2. 在任意文档下添加子文档
3. 选择文档查看或编辑内容

删除文档会同时删除它的所有子文档。`
)

// Store persists document trees
type Store interface {
	LoadDocuments(ctx context.Context, username string) ([]domain.Document, bool, error)
	SaveDocuments(ctx context.Context, username string, docs []domain.Document) error
}

// Service edits document trees
type Service struct {
	store  Store
	logger interfaces.Logger
	newID  func() string

	// serializes load-modify-save cycles
	mu sync.Mutex
}

// NewService creates a documents service
func NewService(store Store, logger interfaces.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		newID:  func() string { return "doc_" + uuid.New().String() },
	}
}

// DefaultTree is the tree a user starts with
func DefaultTree() []domain.Document {
	return []domain.Document{{
		ID:       WelcomeID,
		Label:    welcomeLabel,
		Icon:     welcomeIcon,
		Content:  welcomeContent,
		Children: []domain.Document{},
	}}
}

// List returns the user's whole tree
func (s *Service) List(ctx context.Context, username string) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, username)
}

// Get returns one document with its children
func (s *Service) Get(ctx context.Context, username, id string) (domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.load(ctx, username)
	if err != nil {
		return domain.Document{}, err
	}
	doc := find(docs, id)
	if doc == nil {
		return domain.Document{}, notFound(id)
	}
	return *doc, nil
}

// AddRoot appends a top-level document
func (s *Service) AddRoot(ctx context.Context, username, label string) (domain.Document, error) {
	return s.add(ctx, username, "", label)
}

// AddChild appends a document under parentID
func (s *Service) AddChild(ctx context.Context, username, parentID, label string) (domain.Document, error) {
	return s.add(ctx, username, parentID, label)
}

func (s *Service) add(ctx context.Context, username, parentID, label string) (domain.Document, error) {
	label, err := cleanLabel(label)
	if err != nil {
		return domain.Document{}, err
	}

	doc := domain.Document{
		ID:       s.newID(),
		Label:    label,
		Icon:     DocIcon,
		Content:  "# " + label + "\n\n开始编写内容...",
		Children: []domain.Document{},
	}

	err = s.modify(ctx, username, func(docs []domain.Document) ([]domain.Document, error) {
		if parentID == "" {
			return append(docs, doc), nil
		}
		parent := find(docs, parentID)
		if parent == nil {
			return nil, notFound(parentID)
		}
		parent.Children = append(parent.Children, doc)
		return docs, nil
	})
	if err != nil {
		return domain.Document{}, err
	}

	s.logger.Info("Document created", map[string]interface{}{
		"username": username,
		"doc_id":   doc.ID,
		"parent":   parentID,
	})
	return doc, nil
}

// Rename changes a document's label
func (s *Service) Rename(ctx context.Context, username, id, label string) (domain.Document, error) {
	label, err := cleanLabel(label)
	if err != nil {
		return domain.Document{}, err
	}
	return s.update(ctx, username, id, func(doc *domain.Document) { doc.Label = label })
}

// UpdateContent replaces a document's Markdown
func (s *Service) UpdateContent(ctx context.Context, username, id, content string) (domain.Document, error) {
	return s.update(ctx, username, id, func(doc *domain.Document) { doc.Content = content })
}

func (s *Service) update(ctx context.Context, username, id string, change func(*domain.Document)) (domain.Document, error) {
	var updated domain.Document
	err := s.modify(ctx, username, func(docs []domain.Document) ([]domain.Document, error) {
		doc := find(docs, id)
		if doc == nil {
			return nil, notFound(id)
		}
		change(doc)
		updated = *doc
		return docs, nil
	})
	return updated, err
}

// Delete removes a document together with all of its descendants
func (s *Service) Delete(ctx context.Context, username, id string) error {
	err := s.modify(ctx, username, func(docs []domain.Document) ([]domain.Document, error) {
		rest, ok := remove(docs, id)
		if !ok {
			return nil, notFound(id)
		}
		return rest, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Document deleted", map[string]interface{}{
		"username": username,
		"doc_id":   id,
	})
	return nil
}

func (s *Service) modify(ctx context.Context, username string, change func([]domain.Document) ([]domain.Document, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.load(ctx, username)
	if err != nil {
		return err
	}
	docs, err = change(docs)
	if err != nil {
		return err
	}
	return s.store.SaveDocuments(ctx, username, docs)
}

func (s *Service) load(ctx context.Context, username string) ([]domain.Document, error) {
	docs, ok, err := s.store.LoadDocuments(ctx, username)
	if err != nil {
		return nil, err
	}
	if !ok {
		return DefaultTree(), nil
	}
	return docs, nil
}

func cleanLabel(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", &coreerrors.ValidationError{Field: "label", Message: "document name must not be blank"}
	}
	return label, nil
}

func notFound(id string) error {
	return &coreerrors.NotFoundError{Resource: "document", ID: id}
}

// find returns a pointer into docs so callers can edit in place
func find(docs []domain.Document, id string) *domain.Document {
	for i := range docs {
		if docs[i].ID == id {
			return &docs[i]
		}
		if doc := find(docs[i].Children, id); doc != nil {
			return doc
		}
	}
	return nil
}

func remove(docs []domain.Document, id string) ([]domain.Document, bool) {
	for i := range docs {
		if docs[i].ID == id {
			return append(docs[:i], docs[i+1:]...), true
		}
		if children, ok := remove(docs[i].Children, id); ok {
			docs[i].Children = children
			return docs, true
		}
	}
	return docs, false
}
