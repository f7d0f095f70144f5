package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrProductoNoEncontrado = errors.New("producto no encontrado")
	ErrSKUDuplicado         = errors.New("ya existe un producto con ese SKU")
)

// ProductoRepository defines the data access contract for the catalog store.
// Services depend on this interface, not on the concrete Mongo implementation,
// enabling clean unit testing via in-memory fakes.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id string) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	Update(ctx context.Context, p *model.Producto) error
	Delete(ctx context.Context, id string) error
	LowStock(ctx context.Context) ([]model.Producto, error)

	// AjustarStock applies a signed delta clamped at zero in a single atomic
	// document update and returns the product as it was BEFORE the update.
	// Concurrent adjustments never race against a stale read.
	AjustarStock(ctx context.Context, id string, delta int) (*model.Producto, error)

	// Descuento sync — promotions push their discount into matching documents.
	AplicarDescuento(ctx context.Context, tipoRegla string, valorRegla *string, d model.Descuento) (int64, error)
	QuitarDescuento(ctx context.Context, promocionID string) (int64, error)

	CountActivos(ctx context.Context) (int64, error)
	CountBajoStock(ctx context.Context) (int64, error)
}

type productoRepo struct{ col *mongo.Collection }

func NewProductoRepository(db *mongo.Database) ProductoRepository {
	return &productoRepo{col: db.Collection("productos")}
}

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	now := time.Now().UTC()
	p.SKU = strings.TrimSpace(p.SKU)
	p.SKULower = strings.ToLower(p.SKU)
	p.CreatedAt = now
	p.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSKUDuplicado
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (r *productoRepo) FindByID(ctx context.Context, id string) (*model.Producto, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}
	var p model.Producto
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductoNoEncontrado
		}
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	q := bson.M{}

	// Activo filter: "false" = inactivos, "all" = todos, anything else = activos
	switch filter.Activo {
	case "false":
		q["activo"] = false
	case "all":
		// no filter
	default:
		q["activo"] = true
	}

	if s := strings.TrimSpace(filter.Search); s != "" {
		re := primitive.Regex{Pattern: regexQuote(s), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"nombre": re},
			bson.M{"marca": re},
			bson.M{"sku": re},
		}
	}

	total, err := r.col.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "nombre", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	productos := make([]model.Producto, 0, limit)
	if err := cur.All(ctx, &productos); err != nil {
		return nil, 0, err
	}
	return productos, total, nil
}

// Update persists the editable fields with a targeted $set. stock_qty and
// descuento are deliberately left out: stock moves through AjustarStock and
// discount stamps through AplicarDescuento, both atomic, and writing them
// here would overwrite a concurrent update with a stale read.
func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	p.SKU = strings.TrimSpace(p.SKU)
	p.SKULower = strings.ToLower(p.SKU)
	p.UpdatedAt = time.Now().UTC()

	set := bson.M{
		"sku":         p.SKU,
		"sku_lower":   p.SKULower,
		"nombre":      p.Nombre,
		"marca":       p.Marca,
		"precio":      p.Precio,
		"min_stock":   p.MinStock,
		"descripcion": p.Descripcion,
		"imagenes":    p.Imagenes,
		"activo":      p.Activo,
		"updated_at":  p.UpdatedAt,
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSKUDuplicado
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProductoNoEncontrado
	}
	return nil
}

func (r *productoRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrProductoNoEncontrado
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrProductoNoEncontrado
	}
	return nil
}

func (r *productoRepo) LowStock(ctx context.Context) ([]model.Producto, error) {
	// Exactly the set stock_qty <= min_stock. Inactive products still hold
	// inventory, so they count.
	q := bson.M{"$expr": bson.M{"$lte": bson.A{"$stock_qty", "$min_stock"}}}
	cur, err := r.col.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "stock_qty", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var productos []model.Producto
	if err := cur.All(ctx, &productos); err != nil {
		return nil, err
	}
	return productos, nil
}

func (r *productoRepo) AjustarStock(ctx context.Context, id string, delta int) (*model.Producto, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}

	// Aggregation-pipeline update: new stock = max(0, stock + delta), computed
	// server-side in one atomic operation.
	update := bson.A{
		bson.M{"$set": bson.M{
			"stock_qty":  bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{"$stock_qty", delta}}}},
			"updated_at": "$$NOW",
		}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	var before model.Producto
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&before); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductoNoEncontrado
		}
		return nil, err
	}
	return &before, nil
}

func (r *productoRepo) AplicarDescuento(ctx context.Context, tipoRegla string, valorRegla *string, d model.Descuento) (int64, error) {
	q := bson.M{"activo": true}
	switch tipoRegla {
	case model.ReglaMarca:
		if valorRegla == nil {
			return 0, errors.New("regla MARCA requiere valor")
		}
		q["marca"] = primitive.Regex{Pattern: "^" + regexQuote(*valorRegla) + "$", Options: "i"}
	case model.ReglaSKU:
		if valorRegla == nil {
			return 0, errors.New("regla SKU requiere valor")
		}
		q["sku_lower"] = strings.ToLower(strings.TrimSpace(*valorRegla))
	default:
		// GLOBAL / REBAJAS / FECHA_ESPECIAL apply to the whole active catalog
	}

	res, err := r.col.UpdateMany(ctx, q, bson.M{"$set": bson.M{
		"descuento":  d,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *productoRepo) QuitarDescuento(ctx context.Context, promocionID string) (int64, error) {
	res, err := r.col.UpdateMany(ctx,
		bson.M{"descuento.promocion_id": promocionID},
		bson.M{
			"$unset": bson.M{"descuento": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *productoRepo) CountActivos(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"activo": true})
}

func (r *productoRepo) CountBajoStock(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{
		"$expr": bson.M{"$lte": bson.A{"$stock_qty", "$min_stock"}},
	})
}

// regexQuote escapes user input embedded in a $regex query.
func regexQuote(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`, `.`, `\.`, `+`, `\+`, `*`, `\*`, `?`, `\?`,
		`(`, `\(`, `)`, `\)`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`,
		`^`, `\^`, `$`, `\$`, `|`, `\|`,
	)
	return replacer.Replace(s)
}
