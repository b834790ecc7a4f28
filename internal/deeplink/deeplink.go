// Package deeplink est le mapping bidirectionnel entre une intention de
// navigation et son URL canonique "buyv://app/...".
//
// Exemples:
//   - buyv://app/profile/user123
//   - buyv://app/reels/reel456
//   - buyv://app/search?q=shoes
//
// Le package est une feuille pure : aucune dépendance, aucune I/O.
package deeplink

import "strings"

// Scheme et host canoniques, consommés par le handler d'URL de l'OS
// et par la génération de liens de partage.
const (
	Scheme = "buyv"
	Host   = "app"
)

// Paths reconnus (premier segment après le host).
const (
	pathProfile = "profile"
	pathPost    = "post"
	pathProduct = "product"
	pathOrder   = "order"
	pathReels   = "reels"
	pathSearch  = "search"
)

// Result est l'union des cibles de navigation possibles.
// Une valeur nil signifie "pas de correspondance".
type Result interface {
	isDeepLink()
}

type Profile struct{ UserID string }
type Post struct{ PostID string }
type Product struct{ ProductID string }
type Order struct{ OrderID string }

// Reels cible le flux vertical. ReelID vide = ouvrir le flux sans cible.
type Reels struct{ ReelID string }

// Search cible l'écran de recherche. Query vide = recherche sans terme.
type Search struct{ Query string }

func (Profile) isDeepLink() {}
func (Post) isDeepLink()    {}
func (Product) isDeepLink() {}
func (Order) isDeepLink()   {}
func (Reels) isDeepLink()   {}
func (Search) isDeepLink()  {}

const prefix = Scheme + "://" + Host + "/"

// Build construit l'URL canonique d'une cible. Déterministe, ne peut pas
// échouer. Aucun encodage : l'appelant est responsable du percent-encoding
// des ids/queries contenant '/', '?' ou '&'.
func Build(r Result) string {
	switch v := r.(type) {
	case Profile:
		return prefix + pathProfile + "/" + v.UserID
	case Post:
		return prefix + pathPost + "/" + v.PostID
	case Product:
		return prefix + pathProduct + "/" + v.ProductID
	case Order:
		return prefix + pathOrder + "/" + v.OrderID
	case Reels:
		if v.ReelID == "" {
			return prefix + pathReels
		}
		return prefix + pathReels + "/" + v.ReelID
	case Search:
		if v.Query == "" {
			return prefix + pathSearch
		}
		return prefix + pathSearch + "?q=" + v.Query
	}
	return ""
}

// Parse analyse une URL arbitraire et retourne la cible correspondante,
// ou nil si rien ne correspond. Jamais de panic ni d'erreur : une entrée
// malformée donne toujours nil, jamais un résultat partiel.
func Parse(raw string) Result {
	// 1. Vérification du scheme
	if !strings.HasPrefix(raw, Scheme+"://") {
		return nil
	}

	// 2. Extraction du path puis découpage sur '/' et '?'
	uri := strings.TrimPrefix(raw, prefix)
	components := strings.FieldsFunc(uri, func(r rune) bool {
		return r == '/' || r == '?'
	})

	if len(components) == 0 {
		return nil
	}

	// 3. Dispatch sur le premier segment
	switch components[0] {
	case pathProfile:
		if len(components) > 1 {
			return Profile{UserID: components[1]}
		}
		return nil
	case pathPost:
		if len(components) > 1 {
			return Post{PostID: components[1]}
		}
		return nil
	case pathProduct:
		if len(components) > 1 {
			return Product{ProductID: components[1]}
		}
		return nil
	case pathOrder:
		if len(components) > 1 {
			return Order{OrderID: components[1]}
		}
		return nil
	case pathReels:
		if len(components) > 1 {
			return Reels{ReelID: components[1]}
		}
		return Reels{}
	case pathSearch:
		// Extraction par sous-chaîne : tout ce qui se trouve entre "?q="
		// et le prochain '&' (ou la fin). Pas de décodage.
		if idx := strings.Index(uri, "?q="); idx >= 0 {
			q := uri[idx+len("?q="):]
			if amp := strings.IndexByte(q, '&'); amp >= 0 {
				q = q[:amp]
			}
			return Search{Query: q}
		}
		return Search{}
	default:
		return nil
	}
}
