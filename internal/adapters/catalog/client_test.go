package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/charcache/internal/adapters/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

const pageOne = `{
  "info": {"count": 2, "pages": 1, "next": null, "prev": null},
  "results": [
    {"id": 1, "name": "Rick Sanchez", "status": "Alive", "species": "Human", "type": "",
     "gender": "Male", "origin": {"name": "Earth (C-137)", "url": "https://x/location/1"},
     "location": {"name": "Citadel of Ricks", "url": "https://x/location/3"},
     "image": "https://x/avatar/1.jpeg", "episode": ["https://x/episode/1"]},
    {"id": 2, "name": "Morty Smith", "status": "Alive", "species": "Human", "type": "",
     "gender": "Male", "origin": {"name": "unknown", "url": ""},
     "location": {"name": "Citadel of Ricks", "url": "https://x/location/3"},
     "image": "https://x/avatar/2.jpeg", "episode": []}
  ]
}`

func serve(status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestClient_FetchPage(t *testing.T) {
	Convey("Given a catalog serving one page", t, func() {
		var gotPage string
		s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPage = r.URL.Query().Get("page")
			_, _ = w.Write([]byte(pageOne))
		}))
		defer s.Close()

		c, err := catalog.NewClient(s.URL+"/api/character", catalog.WithTimeout(2*time.Second))
		So(err, ShouldBeNil)

		Convey("When fetching page 1", func() {
			res, err := c.FetchPage(context.Background(), 1)

			Convey("Then the records should be denormalized", func() {
				So(err, ShouldBeNil)
				So(gotPage, ShouldEqual, "1")
				So(res.Page, ShouldEqual, 1)
				So(res.HasMore, ShouldBeTrue)
				So(res.Info.Pages, ShouldEqual, 1)
				So(res.Info.Next, ShouldBeNil)
				So(len(res.Records), ShouldEqual, 2)

				rick := res.Records[0]
				So(rick.ID, ShouldEqual, 1)
				So(rick.Name, ShouldEqual, "Rick Sanchez")
				So(rick.Subtype, ShouldEqual, "")
				So(rick.Origin, ShouldEqual, "Earth (C-137)")
				So(rick.Location, ShouldEqual, "Citadel of Ricks")
				So(rick.ImageURL, ShouldEqual, "https://x/avatar/1.jpeg")
			})
		})
	})
}

func TestClient_PageURL(t *testing.T) {
	Convey("Given a base url with an existing query", t, func() {
		c, err := catalog.NewClient("https://example.com/api/character?status=alive")
		So(err, ShouldBeNil)

		Convey("Then the page parameter should be added without dropping it", func() {
			So(c.PageURL(3), ShouldEqual, "https://example.com/api/character?page=3&status=alive")
		})
	})

	Convey("Given a relative base url", t, func() {
		_, err := catalog.NewClient("/api/character")

		Convey("Then construction should fail", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestClient_Termination(t *testing.T) {
	Convey("Given a catalog page", t, func() {
		ctx := context.Background()

		Convey("When the results array is empty", func() {
			s := serve(http.StatusOK, `{"info":{"count":0,"pages":0},"results":[]}`)
			defer s.Close()
			c, _ := catalog.NewClient(s.URL)
			res, err := c.FetchPage(ctx, 7)

			Convey("Then it should report no more data without an error", func() {
				So(err, ShouldBeNil)
				So(res.HasMore, ShouldBeFalse)
				So(res.Records, ShouldBeEmpty)
			})
		})

		Convey("When the results key is missing", func() {
			s := serve(http.StatusOK, `{"info":{}}`)
			defer s.Close()
			c, _ := catalog.NewClient(s.URL)
			res, err := c.FetchPage(ctx, 1)

			Convey("Then it should be treated as an empty page", func() {
				So(err, ShouldBeNil)
				So(res.HasMore, ShouldBeFalse)
			})
		})

		Convey("When the status is not a success", func() {
			s := serve(http.StatusNotFound, `{"error":"There is nothing here"}`)
			defer s.Close()
			c, _ := catalog.NewClient(s.URL)
			_, err := c.FetchPage(ctx, 43)

			Convey("Then it should be a status error", func() {
				var pe *catalog.PageError
				So(errors.As(err, &pe), ShouldBeTrue)
				So(pe.Kind, ShouldEqual, catalog.KindStatus)
				So(pe.StatusCode, ShouldEqual, http.StatusNotFound)
				So(pe.Page, ShouldEqual, 43)
				So(errors.Is(err, catalog.ErrStatus), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "status 404")
			})
		})

		Convey("When the body is not the expected shape", func() {
			s := serve(http.StatusOK, `[{"id":1}]`)
			defer s.Close()
			c, _ := catalog.NewClient(s.URL)
			_, err := c.FetchPage(ctx, 1)

			Convey("Then it should be a parse error", func() {
				So(errors.Is(err, catalog.ErrParse), ShouldBeTrue)
				So(errors.Is(err, catalog.ErrStatus), ShouldBeFalse)
			})
		})

		Convey("When a record has no id", func() {
			s := serve(http.StatusOK, `{"results":[{"name":"Nobody"}]}`)
			defer s.Close()
			c, _ := catalog.NewClient(s.URL)
			_, err := c.FetchPage(ctx, 1)

			Convey("Then the whole page should be a parse error", func() {
				So(errors.Is(err, catalog.ErrParse), ShouldBeTrue)
			})
		})

		Convey("When the server is unreachable", func() {
			s := serve(http.StatusOK, pageOne)
			url := s.URL
			s.Close()
			c, _ := catalog.NewClient(url)
			_, err := c.FetchPage(ctx, 1)

			Convey("Then it should be a transport error", func() {
				var pe *catalog.PageError
				So(errors.As(err, &pe), ShouldBeTrue)
				So(pe.Kind, ShouldEqual, catalog.KindTransport)
				So(errors.Is(err, catalog.ErrTransport), ShouldBeTrue)
			})
		})

		Convey("When the server is slower than the timeout", func() {
			s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				time.Sleep(500 * time.Millisecond)
				_, _ = w.Write([]byte(pageOne))
			}))
			defer s.Close()
			c, _ := catalog.NewClient(s.URL, catalog.WithTimeout(100*time.Millisecond))
			_, err := c.FetchPage(ctx, 1)

			Convey("Then it should be a transport error", func() {
				So(errors.Is(err, catalog.ErrTransport), ShouldBeTrue)
			})
		})
	})
}

func TestKindString(t *testing.T) {
	Convey("Given page error kinds", t, func() {
		So(catalog.KindTransport.String(), ShouldEqual, "transport")
		So(catalog.KindStatus.String(), ShouldEqual, "status")
		So(catalog.KindParse.String(), ShouldEqual, "parse")
		So(catalog.Kind(0).String(), ShouldEqual, "unknown")
	})
}
