package keycloak

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

// adminStub fakes the slice of the Keycloak admin REST API the client uses.
type adminStub struct {
	users map[string]User
	next  int
}

func newAdminStub() *adminStub {
	return &adminStub{users: map[string]User{}, next: 1}
}

func (s *adminStub) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /admin/realms/test/users", func(w http.ResponseWriter, r *http.Request) {
		var user User
		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			t.Errorf("decode create: %v", err)
		}
		for _, existing := range s.users {
			if existing.Email == user.Email {
				w.WriteHeader(http.StatusConflict)
				return
			}
		}
		id := "user-" + strconv.Itoa(s.next)
		s.next++
		user.ID = id
		s.users[id] = user
		w.Header().Set("Location", r.Host+r.URL.Path+"/"+id)
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("GET /admin/realms/test/users", func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		out := []User{}
		for _, u := range s.users {
			if u.Email == email {
				out = append(out, u)
			}
		}
		json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("GET /admin/realms/test/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.users[r.PathValue("id")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(u)
	})
	mux.HandleFunc("PUT /admin/realms/test/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, ok := s.users[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var user User
		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			t.Errorf("decode update: %v", err)
		}
		user.ID = id
		s.users[id] = user
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("PUT /admin/realms/test/users/{id}/reset-password", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.users[r.PathValue("id")]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /admin/realms/test/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, ok := s.users[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(s.users, id)
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func newStubbedClient(t *testing.T) (*Client, *adminStub) {
	t.Helper()
	stub := newAdminStub()
	srv := httptest.NewServer(stub.handler(t))
	t.Cleanup(srv.Close)
	return newClientWithHTTP(srv.URL+"/admin/realms/test", srv.Client()), stub
}

func TestCreateUserReturnsAssignedID(t *testing.T) {
	client, stub := newStubbedClient(t)

	id, err := client.CreateUser(context.Background(), User{Username: "jane", Email: "jane@example.com", Enabled: true})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if id == "" {
		t.Fatalf("expected an assigned id")
	}
	if stub.users[id].Email != "jane@example.com" {
		t.Fatalf("stored user = %+v", stub.users[id])
	}
}

func TestCreateUserConflict(t *testing.T) {
	client, _ := newStubbedClient(t)

	if _, err := client.CreateUser(context.Background(), User{Username: "jane", Email: "jane@example.com"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := client.CreateUser(context.Background(), User{Username: "jane2", Email: "jane@example.com"})
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("err = %v, want ErrUserExists", err)
	}
}

func TestFindUserByEmail(t *testing.T) {
	client, _ := newStubbedClient(t)

	id, err := client.CreateUser(context.Background(), User{Username: "jane", Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	found, err := client.FindUserByEmail(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if found.ID != id {
		t.Fatalf("found id = %q, want %q", found.ID, id)
	}

	if _, err := client.FindUserByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestSetEmailVerified(t *testing.T) {
	client, stub := newStubbedClient(t)

	id, err := client.CreateUser(context.Background(), User{Username: "jane", Email: "jane@example.com", Enabled: true})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := client.SetEmailVerified(context.Background(), id, true); err != nil {
		t.Fatalf("set email verified: %v", err)
	}
	if !stub.users[id].EmailVerified {
		t.Fatalf("emailVerified not persisted: %+v", stub.users[id])
	}
	if !stub.users[id].Enabled {
		t.Fatalf("update must preserve the rest of the representation: %+v", stub.users[id])
	}

	if err := client.SetEmailVerified(context.Background(), "missing", true); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestDeleteUser(t *testing.T) {
	client, stub := newStubbedClient(t)

	id, err := client.CreateUser(context.Background(), User{Username: "jane", Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := client.DeleteUser(context.Background(), id); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, ok := stub.users[id]; ok {
		t.Fatalf("user still present after delete")
	}
	if err := client.DeleteUser(context.Background(), id); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}
