package db

const orderColumns = `
	id, customer_name, mobile, file_name, file_ref, pages, copies, color, sides, size,
	pickup_time, status, payment_status, transaction_id, paid_at, queue_type,
	priority_index, priority_score, assigned_printer_id, progress_pct, price_total,
	version, created_at, updated_at
`

const (
	insertOrder = `
		INSERT INTO orders (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	getOrderByID = `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

	listOrdersBase = `SELECT ` + orderColumns + ` FROM orders`

	updateOrder = `
		UPDATE orders SET
			status = ?, payment_status = ?, transaction_id = ?, paid_at = ?,
			queue_type = ?, priority_index = ?, priority_score = ?,
			assigned_printer_id = ?, progress_pct = ?, price_total = ?,
			updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?
	`

	deleteOrder = `DELETE FROM orders WHERE id = ?`
)

const printerColumns = `
	id, name, status, ppm, color, duplex, a4, a3, current_job_id, progress_pct,
	version, updated_at
`

const (
	insertPrinter = `
		INSERT INTO printers (` + printerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	getPrinterByID = `SELECT ` + printerColumns + ` FROM printers WHERE id = ?`

	getPrinterByName = `SELECT ` + printerColumns + ` FROM printers WHERE name = ?`

	listPrinters = `SELECT ` + printerColumns + ` FROM printers ORDER BY name ASC`

	updatePrinter = `
		UPDATE printers SET
			name = ?, status = ?, ppm = ?, color = ?, duplex = ?, a4 = ?, a3 = ?,
			current_job_id = ?, progress_pct = ?, updated_at = ?,
			version = version + 1
		WHERE id = ? AND version = ?
	`

	deletePrinter = `DELETE FROM printers WHERE id = ?`
)

const (
	getSetting = `SELECT value FROM settings WHERE key = ?`

	upsertSetting = `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
)
