package services

import (
	"context"
	"fmt"

	"workconnect/model"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ClientService wraps the Clients collection.
type ClientService struct {
	FB *firestore.Client
}

func NewClientService(fb *firestore.Client) *ClientService {
	return &ClientService{FB: fb}
}

// ClientByEmail resolves an email to exactly one client. Zero or multiple
// matches are errors; task assignment by email must be unambiguous.
func (s *ClientService) ClientByEmail(ctx context.Context, email string) (model.Client, error) {
	docs, err := s.FB.Collection("Clients").
		Where("email", "==", email).
		Limit(2).
		Documents(ctx).GetAll()
	if err != nil {
		return model.Client{}, err
	}
	if len(docs) == 0 {
		return model.Client{}, fmt.Errorf("no client with email %s", email)
	}
	if len(docs) > 1 {
		return model.Client{}, fmt.Errorf("email %s matches more than one client", email)
	}

	var client model.Client
	if err := docs[0].DataTo(&client); err != nil {
		return model.Client{}, err
	}
	return client, nil
}

// ResolveAssignees maps assignment emails to client ids, preserving input
// order. Any email that does not resolve to exactly one client fails the
// whole resolution.
func (s *ClientService) ResolveAssignees(ctx context.Context, emails []string) ([]string, error) {
	ids := make([]string, 0, len(emails))
	for _, email := range emails {
		client, err := s.ClientByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		ids = append(ids, client.ClientID)
	}
	return ids, nil
}

// ClientsByID fetches client records for the given ids, skipping ids that no
// longer exist.
func (s *ClientService) ClientsByID(ctx context.Context, ids []string) ([]model.Client, error) {
	clients := make([]model.Client, 0, len(ids))
	for _, id := range ids {
		doc, err := s.FB.Collection("Clients").Doc(id).Get(ctx)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				continue
			}
			return nil, err
		}
		var client model.Client
		if err := doc.DataTo(&client); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, nil
}

// DetachClientFromTasks removes the client id from every task that references
// it. Used when a client is deleted so the dispatcher never sees dangling
// references.
func (s *ClientService) DetachClientFromTasks(ctx context.Context, clientID string) error {
	docs, err := s.FB.Collection("Tasks").
		Where("assignedclients", "array-contains", clientID).
		Documents(ctx).GetAll()
	if err != nil {
		return err
	}
	for _, doc := range docs {
		_, err := doc.Ref.Update(ctx, []firestore.Update{
			{Path: "assignedclients", Value: firestore.ArrayRemove(clientID)},
		})
		if err != nil {
			return err
		}
	}
	return nil
}
