package elastic

// novelMapping is the index mapping for novel search documents. Keyword
// fields back the structured filters, text fields the free-text relevance
// ranking.
const novelMapping = `{
  "mappings": {
    "properties": {
      "id": { "type": "keyword" },
      "title": {
        "type": "text",
        "analyzer": "standard",
        "fields": {
          "keyword": { "type": "keyword" },
          "completion": { "type": "completion" }
        }
      },
      "description": { "type": "text", "analyzer": "standard" },
      "author": {
        "properties": {
          "id": { "type": "keyword" },
          "username": { "type": "keyword" }
        }
      },
      "genres": { "type": "keyword" },
      "tags": { "type": "keyword" },
      "status": { "type": "keyword" },
      "calculatedStats": {
        "properties": {
          "averageRating": { "type": "float" },
          "ratingCount": { "type": "integer" }
        }
      },
      "viewCount": { "type": "integer" },
      "totalChapters": { "type": "integer" },
      "createdAt": { "type": "date" },
      "updatedAt": { "type": "date" }
    }
  },
  "settings": {
    "analysis": {
      "analyzer": {
        "standard": { "type": "standard", "stopwords": "_english_" }
      }
    }
  }
}`
