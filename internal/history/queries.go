package history

// Statements for PostgresStore. %s is replaced with the quoted table name.
const (
	qCreateStateTable = `--sql 5b0e6f0c-8d57-4b5e-9a43-2f0f6f1c7a10
create table if not exists %s (
    key text primary key,
    value bytea not null,
    updated_at timestamptz not null default now()
)`

	qSelectState = `--sql 9c3d1f7e-2a64-4f0b-8e1d-6b7a5c4d3e21
select value from %s where key = $1`

	qUpsertState = `--sql 1e8f4a2b-7c3d-4e5f-a6b7-c8d9e0f1a2b3
insert into %s (key, value, updated_at) values ($1, $2, now())
on conflict (key) do update set value = excluded.value, updated_at = now()`

	qDeleteState = `--sql 4d6e8f0a-1b2c-4d3e-8f5a-6b7c8d9e0f1a
delete from %s where key = $1`
)
