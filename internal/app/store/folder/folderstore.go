// Package folder implements the folder hierarchy manager: a persistent
// forest of per-owner folder trees stored in the folders collection, one
// document per folder.
//
// Each document lists its child folder ids and the opaque item ids placed
// in it. The parent link is derived, never stored: the parent of a folder
// is whichever document currently lists its id in `children`. The store is
// the source of truth on every call; there is no in-memory tree.
//
// Invariants maintained across operations:
//   - a folder's owner never changes, and linked folders share an owner
//   - children links form a forest (no cycles)
//   - a folder id appears in at most one `children` array
//   - an item id appears in at most one `items` array
//   - an owner has at most one parentless folder (the root)
package folder

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/notekeep/internal/app/system/txn"
	"github.com/dalemusser/notekeep/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// CollectionName is the MongoDB collection holding folder documents.
const CollectionName = "folders"

// DefaultRootTitle is the title given to the root folder created by Initialize.
const DefaultRootTitle = "My Folders"

// Manager provides the hierarchy operations over the folders collection.
type Manager struct {
	db     *mongo.Database
	c      *mongo.Collection
	logger *zap.Logger
}

// NewManager creates a folder hierarchy manager.
func NewManager(db *mongo.Database, logger *zap.Logger) *Manager {
	return &Manager{
		db:     db,
		c:      db.Collection(CollectionName),
		logger: logger,
	}
}

// Initialize creates the root folder for an owner who has none yet.
// Returns ErrAlreadyInitialized if the owner already has any folder.
func (m *Manager) Initialize(ctx context.Context, owner string) (*models.Folder, error) {
	n, err := m.c.CountDocuments(ctx, bson.M{"owner": owner})
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, fmt.Errorf("%w: owner %s", ErrAlreadyInitialized, owner)
	}

	root := newFolder(DefaultRootTitle, owner)
	if _, err := m.c.InsertOne(ctx, root); err != nil {
		return nil, err
	}

	m.logger.Debug("folder tree initialized",
		zap.String("owner", owner),
		zap.String("root_id", root.ID.Hex()))
	return &root, nil
}

// Create creates a folder under an existing parent owned by the same user.
// The child document is inserted before its id is linked from the parent,
// so a concurrent reader never observes a dangling child reference.
func (m *Manager) Create(ctx context.Context, owner, title string, parentID primitive.ObjectID) (*models.Folder, error) {
	parent, err := m.get(ctx, parentID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: %s", ErrParentNotFound, parentID.Hex())
		}
		return nil, err
	}
	if parent.Owner != owner {
		return nil, fmt.Errorf("%w: folder %s", ErrNotOwner, parentID.Hex())
	}

	child := newFolder(title, owner)
	err = txn.Run(ctx, m.db, m.logger, func(ctx context.Context) error {
		if _, err := m.c.InsertOne(ctx, child); err != nil {
			return err
		}
		_, err := m.c.UpdateOne(ctx,
			bson.M{"_id": parentID},
			bson.M{
				"$addToSet": bson.M{"children": child.ID},
				"$set":      bson.M{"updated_at": time.Now().UTC()},
			})
		return err
	})
	if err != nil {
		return nil, err
	}

	m.logger.Debug("folder created",
		zap.String("owner", owner),
		zap.String("folder_id", child.ID.Hex()),
		zap.String("parent_id", parentID.Hex()))
	return &child, nil
}

// Move re-parents a folder (and with it the whole subtree) under newParent.
//
// Preconditions are checked in order, first failure wins: both folders
// exist, owners match, the folder is not its own destination, and the
// destination is not a descendant of the folder being moved. Only the
// parent link changes; the folder's own children and items are untouched.
func (m *Manager) Move(ctx context.Context, folderID, newParentID primitive.ObjectID) error {
	f, err := m.get(ctx, folderID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("%w: %s", ErrFolderNotFound, folderID.Hex())
		}
		return err
	}
	dst, err := m.get(ctx, newParentID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("%w: %s", ErrFolderNotFound, newParentID.Hex())
		}
		return err
	}
	if f.Owner != dst.Owner {
		return fmt.Errorf("%w: %s and %s", ErrOwnerMismatch, folderID.Hex(), newParentID.Hex())
	}
	if folderID == newParentID {
		return fmt.Errorf("%w: %s", ErrSelfMove, folderID.Hex())
	}
	desc, err := m.isDescendant(ctx, folderID, newParentID)
	if err != nil {
		return err
	}
	if desc {
		return fmt.Errorf("%w: %s is a descendant of %s", ErrCycleDetected, newParentID.Hex(), folderID.Hex())
	}

	now := time.Now().UTC()
	err = txn.Run(ctx, m.db, m.logger, func(ctx context.Context) error {
		// Detach from the current parent. Matching nothing is fine: a root
		// being attached for the first time has no parent to detach from.
		if _, err := m.c.UpdateOne(ctx,
			bson.M{"children": folderID},
			bson.M{
				"$pull": bson.M{"children": folderID},
				"$set":  bson.M{"updated_at": now},
			}); err != nil {
			return err
		}
		_, err := m.c.UpdateOne(ctx,
			bson.M{"_id": newParentID},
			bson.M{
				"$addToSet": bson.M{"children": folderID},
				"$set":      bson.M{"updated_at": now},
			})
		return err
	})
	if err != nil {
		return err
	}

	m.logger.Debug("folder moved",
		zap.String("folder_id", folderID.Hex()),
		zap.String("new_parent_id", newParentID.Hex()))
	return nil
}

// Delete removes a folder together with its entire descendant subtree.
// Items contained anywhere in the subtree simply cease to be referenced;
// the external item owner is not notified. Deleting a root removes the
// owner's whole tree.
func (m *Manager) Delete(ctx context.Context, folderID primitive.ObjectID) error {
	if _, err := m.get(ctx, folderID); err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("%w: %s", ErrFolderNotFound, folderID.Hex())
		}
		return err
	}

	ids, err := m.collectSubtree(ctx, folderID)
	if err != nil {
		return err
	}

	err = txn.Run(ctx, m.db, m.logger, func(ctx context.Context) error {
		if _, err := m.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
			return err
		}
		// Prune the deleted folder from its parent, if it had one.
		_, err := m.c.UpdateOne(ctx,
			bson.M{"children": folderID},
			bson.M{
				"$pull": bson.M{"children": folderID},
				"$set":  bson.M{"updated_at": time.Now().UTC()},
			})
		return err
	})
	if err != nil {
		return err
	}

	m.logger.Debug("folder subtree deleted",
		zap.String("folder_id", folderID.Hex()),
		zap.Int("folders_removed", len(ids)))
	return nil
}

// InsertItem places an item into a folder. If the item currently lives in
// another folder (the search is global, not scoped to one owner) it is
// removed from there first. Inserting an item into the folder that already
// holds it is a no-op success.
func (m *Manager) InsertItem(ctx context.Context, item string, folderID primitive.ObjectID) error {
	if _, err := m.get(ctx, folderID); err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("%w: %s", ErrFolderNotFound, folderID.Hex())
		}
		return err
	}

	holder, err := m.HolderOf(ctx, item)
	if err != nil {
		return err
	}
	if holder != nil && holder.ID == folderID {
		return nil
	}

	now := time.Now().UTC()
	return txn.Run(ctx, m.db, m.logger, func(ctx context.Context) error {
		if holder != nil {
			if _, err := m.c.UpdateOne(ctx,
				bson.M{"_id": holder.ID},
				bson.M{
					"$pull": bson.M{"items": item},
					"$set":  bson.M{"updated_at": now},
				}); err != nil {
				return err
			}
		}
		_, err := m.c.UpdateOne(ctx,
			bson.M{"_id": folderID},
			bson.M{
				"$addToSet": bson.M{"items": item},
				"$set":      bson.M{"updated_at": now},
			})
		return err
	})
}

// DeleteItem removes an item from whichever folder currently contains it.
// Returns ErrItemNotFound if no folder holds the item.
func (m *Manager) DeleteItem(ctx context.Context, item string) error {
	res, err := m.c.UpdateOne(ctx,
		bson.M{"items": item},
		bson.M{
			"$pull": bson.M{"items": item},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, item)
	}
	return nil
}

// Children returns the direct child folder ids of a folder.
func (m *Manager) Children(ctx context.Context, folderID primitive.ObjectID) ([]primitive.ObjectID, error) {
	f, err := m.Details(ctx, folderID)
	if err != nil {
		return nil, err
	}
	return f.Children, nil
}

// Items returns the direct item ids of a folder.
func (m *Manager) Items(ctx context.Context, folderID primitive.ObjectID) ([]string, error) {
	f, err := m.Details(ctx, folderID)
	if err != nil {
		return nil, err
	}
	return f.Items, nil
}

// Details returns the full folder record.
func (m *Manager) Details(ctx context.Context, folderID primitive.ObjectID) (*models.Folder, error) {
	f, err := m.get(ctx, folderID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, folderID.Hex())
		}
		return nil, err
	}
	return f, nil
}

// Root returns the owner's parentless folder, or ErrFolderNotFound if the
// owner has not initialized a tree.
func (m *Manager) Root(ctx context.Context, owner string) (*models.Folder, error) {
	cursor, err := m.c.Find(ctx, bson.M{"owner": owner})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var folders []models.Folder
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, err
	}

	// The root is the owner's folder that no sibling lists as a child.
	referenced := make(map[primitive.ObjectID]struct{})
	for _, f := range folders {
		for _, c := range f.Children {
			referenced[c] = struct{}{}
		}
	}
	for i := range folders {
		if _, ok := referenced[folders[i].ID]; !ok {
			return &folders[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no root for owner %s", ErrFolderNotFound, owner)
}

// get loads a folder document by id. Returns mongo.ErrNoDocuments unmapped;
// callers translate to the appropriate sentinel.
func (m *Manager) get(ctx context.Context, id primitive.ObjectID) (*models.Folder, error) {
	var f models.Folder
	if err := m.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// HolderOf returns the folder currently containing the item, or nil if the
// item is in no folder.
func (m *Manager) HolderOf(ctx context.Context, item string) (*models.Folder, error) {
	var f models.Folder
	err := m.c.FindOne(ctx, bson.M{"items": item}).Decode(&f)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// childrenOf reads just the children array of a folder. A missing document
// (dangling reference) yields an empty list rather than an error so
// traversals stay robust against partially written trees.
func (m *Manager) childrenOf(ctx context.Context, id primitive.ObjectID) ([]primitive.ObjectID, error) {
	var f models.Folder
	opts := options.FindOne().SetProjection(bson.M{"children": 1})
	err := m.c.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&f)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f.Children, nil
}

func newFolder(title, owner string) models.Folder {
	now := time.Now().UTC()
	return models.Folder{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		Owner:     owner,
		Children:  []primitive.ObjectID{},
		Items:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
