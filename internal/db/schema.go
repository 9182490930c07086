package db

// SchemaSQL is the authoritative schema. All repository tests load it into
// an in-memory database via the shared test setup, so any column the code
// references but the schema lacks fails immediately with "no such column".
const SchemaSQL = `
-- Preventive maintenance tasks. Exactly one of machine_id and location is
-- set (tagged target union, enforced at the service boundary and here).
CREATE TABLE IF NOT EXISTS pm_tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	machine_id INTEGER,
	location TEXT,
	name TEXT NOT NULL,
	description TEXT,
	task_type TEXT NOT NULL CHECK(task_type IN ('recurring', 'one_time')) DEFAULT 'recurring',
	frequency_days INTEGER,
	priority TEXT NOT NULL CHECK(priority IN ('low', 'normal', 'high', 'urgent')) DEFAULT 'normal',
	status TEXT NOT NULL CHECK(status IN ('pending', 'due_today', 'overdue', 'completed')) DEFAULT 'pending',
	due_date DATETIME,
	next_due_date DATETIME,
	last_executed_date DATETIME,
	estimated_duration_minutes INTEGER,
	assignee_id INTEGER,
	created_by INTEGER NOT NULL,
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CHECK((machine_id IS NULL) != (location IS NULL))
);

CREATE INDEX IF NOT EXISTS idx_pm_tasks_due ON pm_tasks(is_active, status, next_due_date);

-- Execution history. Append-only: rows are never updated except for the
-- follow-on work order link set right after creation.
CREATE TABLE IF NOT EXISTS pm_executions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id INTEGER NOT NULL,
	executed_date DATETIME NOT NULL,
	assignee_id INTEGER,
	completed_by INTEGER,
	completion_status TEXT NOT NULL CHECK(completion_status IN ('completed', 'skipped', 'pending')) DEFAULT 'completed',
	notes TEXT,
	duration_minutes INTEGER NOT NULL DEFAULT 0,
	work_order_id INTEGER,
	FOREIGN KEY (task_id) REFERENCES pm_tasks(id)
);

CREATE INDEX IF NOT EXISTS idx_pm_executions_task ON pm_executions(task_id, executed_date);

-- Files attached to a specific execution.
CREATE TABLE IF NOT EXISTS pm_attachments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	execution_id INTEGER NOT NULL,
	file_path TEXT NOT NULL,
	original_filename TEXT NOT NULL,
	file_type TEXT NOT NULL CHECK(file_type IN ('image', 'document', 'other')),
	file_size INTEGER NOT NULL DEFAULT 0,
	uploaded_by INTEGER,
	FOREIGN KEY (execution_id) REFERENCES pm_executions(id)
);

-- Follow-on work orders spawned by machine-bound completions.
CREATE TABLE IF NOT EXISTS work_orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	machine_id INTEGER NOT NULL,
	assignee_id INTEGER,
	title TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL CHECK(status IN ('open', 'closed')) DEFAULT 'open',
	event_time DATETIME NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	closed_at DATETIME
);

-- Notification outbox, consumed by the excluded presentation layer.
CREATE TABLE IF NOT EXISTS notifications (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	event_kind TEXT NOT NULL,
	task_id INTEGER NOT NULL,
	target_user_id INTEGER,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	read INTEGER NOT NULL DEFAULT 0
);

-- Audit trail. Best-effort writes; metadata is a JSON object.
CREATE TABLE IF NOT EXISTS audit_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	category TEXT NOT NULL,
	action TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	entity_id INTEGER NOT NULL,
	actor_id INTEGER,
	description TEXT,
	metadata TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
