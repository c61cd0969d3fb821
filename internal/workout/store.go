package workout

import (
	"context"
	"time"

	"github.com/dat2/workout-tracking-app/internal/db"
)

type Exercise struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Sets int    `json:"sets"`
	Reps int    `json:"reps"`
}

type Routine struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
}

type Workout struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	RoutineID int       `json:"routine_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Store struct {
	db *db.DB
}

func NewStore(db *db.DB) *Store {
	return &Store{db: db}
}

// ListRoutines returns every routine with its exercises nested, in id
// order.
func (s *Store) ListRoutines(ctx context.Context) ([]Routine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name FROM routines ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routines := []Routine{}
	index := map[int]int{}
	for rows.Next() {
		var r Routine
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		r.Exercises = []Exercise{}
		index[r.ID] = len(routines)
		routines = append(routines, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	exRows, err := s.db.QueryContext(ctx, `
		SELECT id, routine_id, name, sets, reps
		FROM exercises
		ORDER BY routine_id, id
	`)
	if err != nil {
		return nil, err
	}
	defer exRows.Close()

	for exRows.Next() {
		var (
			e         Exercise
			routineID int
		)
		if err := exRows.Scan(&e.ID, &routineID, &e.Name, &e.Sets, &e.Reps); err != nil {
			return nil, err
		}
		if i, ok := index[routineID]; ok {
			routines[i].Exercises = append(routines[i].Exercises, e)
		}
	}

	return routines, exRows.Err()
}

// CreateWorkout records that userID started routineID now.
func (s *Store) CreateWorkout(ctx context.Context, userID, routineID int) (Workout, error) {
	w := Workout{UserID: userID, RoutineID: routineID}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO workouts (user_id, routine_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, userID, routineID).Scan(&w.ID, &w.CreatedAt)

	if err != nil {
		return Workout{}, err
	}

	return w, nil
}
