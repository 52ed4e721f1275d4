package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/margdarshak/margdarshak/db"
)

const orderColumns = `id, user_id, courier, amount_paise, estimated_delivery, pickup_address, delivery_address, parcel, status, created, updated`

func newOrderFromStmt(stmt *sqlite.Stmt) (*db.ParcelOrder, error) {
	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}

	updated, err := db.TimeParse(stmt.GetText("updated"))
	if err != nil {
		return nil, fmt.Errorf("error parsing updated time: %w", err)
	}

	var parcel json.RawMessage
	if p := stmt.GetText("parcel"); p != "" {
		parcel = json.RawMessage(p)
	}

	return &db.ParcelOrder{
		ID:                stmt.GetText("id"),
		UserID:            stmt.GetText("user_id"),
		Courier:           stmt.GetText("courier"),
		AmountPaise:       stmt.GetInt64("amount_paise"),
		EstimatedDelivery: stmt.GetText("estimated_delivery"),
		PickupAddress:     stmt.GetText("pickup_address"),
		DeliveryAddress:   stmt.GetText("delivery_address"),
		Parcel:            parcel,
		Status:            stmt.GetText("status"),
		Created:           created,
		Updated:           updated,
	}, nil
}

// InsertOrder persists a new parcel order and returns the stored row.
func (d *Db) InsertOrder(order db.ParcelOrder) (*db.ParcelOrder, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var created *db.ParcelOrder
	err = sqlitex.Execute(conn,
		`INSERT INTO parcel_orders
		(id, user_id, courier, amount_paise, estimated_delivery, pickup_address, delivery_address, parcel, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+orderColumns,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				created, err = newOrderFromStmt(stmt)
				return err
			},
			Args: []interface{}{
				uuid.NewString(),        // 1. id
				order.UserID,            // 2. user_id
				order.Courier,           // 3. courier
				order.AmountPaise,       // 4. amount_paise
				order.EstimatedDelivery, // 5. estimated_delivery
				order.PickupAddress,     // 6. pickup_address
				order.DeliveryAddress,   // 7. delivery_address
				string(order.Parcel),    // 8. parcel
				order.Status,            // 9. status
			},
		})
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	return created, nil
}

// GetOrdersByUser returns the user's orders, newest first.
func (d *Db) GetOrdersByUser(userID string, limit int) ([]*db.ParcelOrder, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var orders []*db.ParcelOrder
	err = sqlitex.Execute(conn,
		`SELECT `+orderColumns+` FROM parcel_orders
		WHERE user_id = ?
		ORDER BY created DESC, id DESC
		LIMIT ?`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				order, err := newOrderFromStmt(stmt)
				if err != nil {
					return err
				}
				orders = append(orders, order)
				return nil
			},
			Args: []interface{}{userID, limit},
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	if orders == nil {
		orders = []*db.ParcelOrder{}
	}
	return orders, nil
}
