package repo

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-storefront/internal/domain"
	"go-storefront/internal/feature/storefront"
	"go-storefront/internal/session"
	"go-storefront/internal/store/cart"
)

type SessionRepo struct{ db *gorm.DB }

func NewSessionRepo(db *gorm.DB) *SessionRepo { return &SessionRepo{db: db} }

// upsertSession 冲突时只更新业务列；deleted_at 不在其中，已软删的行不会被救回
var upsertSession = clause.OnConflict{
	Columns: []clause.Column{{Name: "id"}},
	DoUpdates: clause.AssignmentColumns([]string{
		"authenticated", "user_id", "first_name", "last_name", "email", "phone", "role", "updated_at",
	}),
	Where: clause.Where{Exprs: []clause.Expression{
		clause.Eq{Column: clause.Column{Table: storefront.SessionModel{}.TableName(), Name: "deleted_at"}, Value: nil},
	}},
}

// Save 覆盖式保存：会话行 upsert，购物车行先删后插。
// 会话已被软删除时不写入，返回 session.ErrNotFound。
func (r *SessionRepo) Save(ctx context.Context, rec session.Record) error {
	m := toModel(rec)
	lines, err := toLineModels(rec)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(upsertSession).Create(&m)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return session.ErrNotFound
		}
		if err := tx.Where("session_id = ?", rec.ID).Delete(&storefront.CartLineModel{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
}

func (r *SessionRepo) Load(ctx context.Context, id string) (*session.Record, error) {
	var m storefront.SessionModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var lines []storefront.CartLineModel
	if err := r.db.WithContext(ctx).Where("session_id = ?", id).Find(&lines).Error; err != nil {
		return nil, err
	}
	rec := fromModel(m, lines)
	return &rec, nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).Delete(&storefront.SessionModel{}).Error; err != nil {
			return err
		}
		return tx.Where("session_id = ?", id).Delete(&storefront.CartLineModel{}).Error
	})
}

func (r *SessionRepo) List(ctx context.Context, offset, limit int) ([]session.Record, int64, error) {
	tx := r.db.WithContext(ctx).Model(&storefront.SessionModel{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ms []storefront.SessionModel
	if err := tx.Offset(offset).Limit(limit).Order("updated_at desc").Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]session.Record, 0, len(ms))
	for _, m := range ms {
		out = append(out, fromModel(m, nil))
	}
	return out, total, nil
}

func toModel(rec session.Record) storefront.SessionModel {
	m := storefront.SessionModel{ID: rec.ID, CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt}
	if u := rec.User; u != nil {
		m.Authenticated = true
		m.UserID, m.FirstName, m.LastName = u.ID, u.FirstName, u.LastName
		m.Email, m.Phone, m.Role = u.Email, u.Phone, u.Role
	}
	return m
}

func toLineModels(rec session.Record) ([]storefront.CartLineModel, error) {
	out := make([]storefront.CartLineModel, 0, len(rec.Lines))
	for _, l := range rec.Lines {
		snap, err := json.Marshal(l.Product)
		if err != nil {
			return nil, err
		}
		out = append(out, storefront.CartLineModel{
			SessionID: rec.ID,
			ProductID: string(l.ProductID),
			Quantity:  l.Quantity,
			Snapshot:  string(snap),
		})
	}
	return out, nil
}

func fromModel(m storefront.SessionModel, lines []storefront.CartLineModel) session.Record {
	rec := session.Record{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
	if m.Authenticated {
		rec.User = &domain.User{
			ID: m.UserID, FirstName: m.FirstName, LastName: m.LastName,
			Email: m.Email, Phone: m.Phone, Role: m.Role,
		}
	}
	for _, lm := range lines {
		l := cart.Line{ProductID: domain.ProductID(lm.ProductID), Quantity: lm.Quantity}
		if lm.Snapshot != "" {
			// 快照损坏只影响展示，保留 id 与数量
			_ = json.Unmarshal([]byte(lm.Snapshot), &l.Product)
		}
		if l.Product.ID == "" {
			l.Product.ID = l.ProductID
		}
		rec.Lines = append(rec.Lines, l)
	}
	return rec
}
