package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("public_id", "name").
		From("participants").
		Where(Eq("code", "K7XQ2M"), IsNull("deleted_at")).
		OrderBy("id").
		Limit(1).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT public_id, name FROM participants WHERE code = $1 AND deleted_at IS NULL ORDER BY id LIMIT 1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "K7XQ2M" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderGroupBy(t *testing.T) {
	query, _, err := Select("participant_public_id", "SUM(earned_points) AS total").
		From("participant_achievements").
		Where(IsNull("deleted_at")).
		GroupBy("participant_public_id").
		OrderBy("total DESC").
		ToSQL()
	if err != nil {
		t.Fatalf("build group-by query: %v", err)
	}

	wantQuery := "SELECT participant_public_id, SUM(earned_points) AS total FROM participant_achievements WHERE deleted_at IS NULL GROUP BY participant_public_id ORDER BY total DESC"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
}

func TestInsertBuilderWithSuffix(t *testing.T) {
	query, args, err := InsertInto("pods").
		Columns("public_id", "round_public_id").
		Values("pod-1", "round-1").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO pods (public_id, round_public_id) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModelUsesDBTags(t *testing.T) {
	model := struct {
		PublicID string `db:"public_id"`
		Name     string `db:"name"`
		Skipped  string `db:"-"`
	}{PublicID: "p-1", Name: "Niv-Mizzet"}

	query, args, err := InsertModel("winning_commanders", model, "")
	if err != nil {
		t.Fatalf("build insert model query: %v", err)
	}

	wantQuery := "INSERT INTO winning_commanders (public_id, name) VALUES ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "p-1" || args[1] != "Niv-Mizzet" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilderMixesValuesAndExpressions(t *testing.T) {
	query, args, err := Update("pods").
		Set("submitted", true).
		SetExpr("updated_at", "NOW()").
		Where(Eq("public_id", "pod-1"), IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE pods SET submitted = $1, updated_at = NOW() WHERE public_id = $2 AND deleted_at IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != true || args[1] != "pod-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInConditionEmptyValues(t *testing.T) {
	query, args, err := Select("*").
		From("participant_achievements").
		Where(In("participant_public_id", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	wantQuery := "SELECT * FROM participant_achievements WHERE 1=0"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
