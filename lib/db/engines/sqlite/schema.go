package sqlite

// Each strategy owns its table layout. All statements are idempotent
// ("if not exists") so opening an existing database is safe, and they run
// inside one IMMEDIATE transaction on open.

// schemaUpdateInPlace is a single table holding exactly one row per key
var schemaUpdateInPlace = []string{
	`
	create table if not exists kvs (
		key blob not null primary key,
		value blob not null,
		inserted_at datetime not null default(STRFTIME('%Y-%m-%d %H:%M:%f', 'NOW')),
		updated_at datetime not null default(STRFTIME('%Y-%m-%d %H:%M:%f', 'NOW'))
	)
	`,
}

// schemaAppend splits keys and versions: one row per key in keys, one row
// per write in vvalues. Deleting a key cascades to all of its versions.
var schemaAppend = []string{
	`
	create table if not exists keys (
		id integer primary key,
		key blob not null,
		inserted_at datetime not null default(STRFTIME('%Y-%m-%d %H:%M:%f', 'NOW'))
	)
	`,
	`
	create table if not exists vvalues (
		id integer primary key,
		key_id integer not null,
		value blob not null,
		inserted_at datetime not null default(STRFTIME('%Y-%m-%d %H:%M:%f', 'NOW')),

		foreign key(key_id) references keys(id) on delete cascade
	)
	`,
	`create unique index if not exists keys_key on keys (key)`,
	`create index if not exists vvalues_inserted_at on vvalues (inserted_at)`,
	`create index if not exists vvalues_key_id on vvalues (key_id)`,
}
