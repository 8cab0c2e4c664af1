package app

// OpenAPISpec is the OpenAPI document served by the Swagger handler
var OpenAPISpec = []byte(`openapi: 3.0.3
info:
  title: GoodGame Sentiment Monitor API
  description: Backend for the restaurant-brand social sentiment dashboard.
  version: 1.0.0
servers:
  - url: /api/v1
paths:
  /dashboard:
    get:
      summary: Assemble a dashboard view for a filter/sort combination
      parameters:
        - name: time_range
          in: query
          schema:
            type: string
            enum: [today, yesterday, day_before, week, half_month, month, all]
        - name: platform
          in: query
          schema: { type: string }
        - name: relevance
          in: query
          schema: { type: string }
        - name: priority
          in: query
          schema: { type: string }
        - name: creator_type
          in: query
          schema: { type: string }
        - name: since
          in: query
          schema: { type: string, format: date-time }
        - name: sort
          in: query
          schema: { type: string, enum: [newest, oldest] }
        - name: page
          in: query
          schema: { type: integer }
        - name: page_size
          in: query
          schema: { type: integer }
        - name: hydrate
          in: query
          description: Serve from the snapshot cache when the return-once marker matches.
          schema: { type: boolean }
      responses:
        "200": { description: Dashboard view with snapshot and cache key }
        "400": { description: Invalid filter parameters }
  /dashboard/return:
    post:
      summary: Set the return-once marker before navigating to a detail view
      responses:
        "204": { description: Marker recorded }
  /dashboard/scroll:
    post:
      summary: Merge a scroll offset into a cached snapshot
      responses:
        "204": { description: Scroll offset merged }
  /dashboard/drill:
    post:
      summary: Drill the breakdown chart one level down
      responses:
        "200": { description: New drill state }
        "409": { description: Drill already at the deepest level }
        "410": { description: Snapshot expired }
  /dashboard/back:
    post:
      summary: Pop the breakdown chart one level up
      responses:
        "200": { description: New drill state }
        "410": { description: Snapshot expired }
  /dashboard/view-state:
    get:
      summary: Load the persisted view preferences
      responses:
        "200": { description: View state }
        "404": { description: Nothing persisted }
    put:
      summary: Persist view preferences independent of the snapshot TTL
      responses:
        "204": { description: Saved }
  /dashboard/overview:
    get:
      summary: Serve the single-slot overview state, refetching when dirty
      parameters:
        - name: refresh
          in: query
          schema: { type: boolean }
      responses:
        "200": { description: Overview state }
    delete:
      summary: Clear the overview slot
      responses:
        "204": { description: Cleared }
  /posts:
    post:
      summary: Register a collected post, refreshing counters on a known item
      responses:
        "201": { description: Registered or refreshed post }
        "400": { description: Invalid post payload }
        "409": { description: Concurrent registration of the same item }
    get:
      summary: List monitored posts with filtering
      responses:
        "200": { description: Posts with total count }
  /posts/statistics:
    get:
      summary: Aggregated monitoring statistics
      responses:
        "200": { description: Statistics }
  /posts/{id}:
    get:
      summary: Get one post
      parameters:
        - name: id
          in: path
          required: true
          schema: { type: string }
      responses:
        "200": { description: Post }
        "404": { description: Post not found }
  /posts/{id}/mark:
    post:
      summary: Flip the triage mark on a post
      responses:
        "200": { description: Updated post }
  /posts/{id}/relevance:
    put:
      summary: Set the pre-screening relevance signal
      responses:
        "200": { description: Updated post }
  /posts/{id}/cover:
    post:
      summary: Mirror a cover image into object storage
      responses:
        "200": { description: Stored cover key and public URL }
  /enums/filters:
    get:
      summary: Global filter option sets, each headed by an "all" option
      responses:
        "200": { description: Filter enums }
  /rules:
    get:
      summary: List tagging rules
      responses:
        "200": { description: Rules with total count }
    post:
      summary: Create a tagging rule
      responses:
        "201": { description: Created rule }
        "400": { description: Broken causal chain }
  /rules/extract:
    post:
      summary: Extract an APU causal chain from a product description
      responses:
        "200": { description: Extracted chain, optionally saved as a rule }
        "422": { description: No chain could be extracted }
  /rules/{id}:
    get:
      summary: Get one rule
      responses:
        "200": { description: Rule }
        "404": { description: Rule not found }
    put:
      summary: Update a rule
      responses:
        "200": { description: Updated rule }
    delete:
      summary: Delete a rule
      responses:
        "204": { description: Deleted }
`)
