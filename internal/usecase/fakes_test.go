package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"ExploreTg-App/internal/domain/helper"
	"ExploreTg-App/internal/domain/model"
	"ExploreTg-App/internal/session"
)

var errUpstream = errors.New("connexion refusée")

type fakePlacesRepository struct {
	places []model.Place
	err    error
	calls  atomic.Int32
	// release が設定されていれば FindAll はそれが閉じられるまで待つ
	release chan struct{}
}

func (f *fakePlacesRepository) FindAll(ctx context.Context) ([]model.Place, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.places, nil
}

func (f *fakePlacesRepository) FindByID(ctx context.Context, id model.PlaceID) (*model.Place, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.places {
		if f.places[i].ID == id {
			p := f.places[i]
			return &p, nil
		}
	}
	return nil, model.ErrPlaceNotFound
}

type fakeLikesRepository struct {
	mu    sync.Mutex
	liked []model.PlaceID
	err   error
	ops   []string
}

func (f *fakeLikesRepository) ListLiked(ctx context.Context) ([]model.PlaceID, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.liked, nil
}

func (f *fakeLikesRepository) Like(ctx context.Context, id model.PlaceID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "like:"+id.String())
	return f.err
}

func (f *fakeLikesRepository) Unlike(ctx context.Context, id model.PlaceID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "unlike:"+id.String())
	return f.err
}

type fakeAuthRepository struct {
	got *model.LoginRequest
}

func (f *fakeAuthRepository) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResult, error) {
	f.got = req
	return &model.LoginResult{AccessToken: "jwt"}, nil
}

func testNormalizer() *helper.ImageNormalizer {
	return helper.NewImageNormalizer("http://assets.test", "/no-image.png")
}

func loggedIn(token string) context.Context {
	return session.NewContext(context.Background(), session.StaticProvider{TokenValue: token})
}

func testPlaces() []model.Place {
	return []model.Place{
		{
			ID: "1", Type: "hotels", Name: "Hôtel du Lac",
			RegionName: "Maritime", PrefectureName: "Vo",
			Images:   []model.RawImage{model.PlainImage("lac.jpg")},
			Geometry: "POINT(6.23 1.48)",
		},
		{
			ID: "2", Type: "marches", Name: "Marché de Bè",
			RegionName: "Maritime", PrefectureName: "Golfe",
			Geometry: "POINT(6.13 1.22)",
		},
		{
			ID: "3", Type: "parcs", Name: "Parc de Fazao",
			RegionName: "Centrale", PrefectureName: "Sotouboua",
		},
	}
}
